package info

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

const (
	maxExtractChars    = 2000
	maxConcurrentFetch = 3
)

// SearchTool performs general web search through the Tavily API, with
// optional readable-text extraction of the result pages.
type SearchTool struct {
	client  *Client
	retrier *Retrier

	baseURL string
}

type SearchArgs struct {
	Query          string `json:"query"`
	Count          int    `json:"count,omitempty"`
	IncludeContent bool   `json:"include_content,omitempty"`
}

func NewSearchTool(client *Client) *SearchTool {
	return &SearchTool{
		client:  client,
		retrier: NewRetrier(),
		baseURL: "https://api.tavily.com/search",
	}
}

func (t *SearchTool) Name() string {
	return "search_web"
}

func (t *SearchTool) Description() string {
	return `Recherche web générale via Tavily AI.

À UTILISER EN DERNIER RECOURS quand aucun outil spécialisé ne convient.

EXEMPLES:
- "Qui est Ibrahim Traoré?"
- "Thomas Sankara discours"
- "capitale du Ghana"

Retourne résultats de recherche avec extraits de pages.`
}

func (t *SearchTool) Schema() types.Schema {
	return types.Schema{
		Type: "object",
		Properties: map[string]types.Schema{
			"query": {
				Type:        "string",
				Description: "Question ou mots-clés de recherche",
			},
			"count": {
				Type:        "integer",
				Description: "Nombre de résultats (1-10)",
			},
			"include_content": {
				Type:        "boolean",
				Description: "Extraire le texte complet des pages trouvées",
			},
		},
		Required: []string{"query"},
	}
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Answer  string `json:"answer,omitempty"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (t *SearchTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	if t.client.tavilyAPIKey == "" {
		return nil, fmt.Errorf("TAVILY_API_KEY not configured")
	}

	var params SearchArgs
	if err := bindArgs(args, &params); err != nil {
		return nil, err
	}

	if params.Query == "" {
		return nil, fmt.Errorf("query parameter is required")
	}
	if params.Count < 1 {
		params.Count = 5
	}
	if params.Count > 10 {
		params.Count = 10
	}

	var resp tavilyResponse
	err := t.retrier.ExecuteWithBackoff(ctx, func() error {
		return t.client.PostJSON(ctx, t.baseURL, tavilyRequest{
			APIKey:     t.client.tavilyAPIKey,
			Query:      params.Query,
			MaxResults: params.Count,
		}, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	results := make([]map[string]interface{}, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = map[string]interface{}{
			"title":   r.Title,
			"url":     r.URL,
			"snippet": r.Content,
			"score":   r.Score,
		}
	}

	if params.IncludeContent {
		t.attachPageContent(ctx, results)
	}

	return map[string]interface{}{
		"query":   params.Query,
		"count":   len(results),
		"results": results,
	}, nil
}

// attachPageContent fetches each result page and adds its readable text.
// Extraction is best effort; a page that cannot be fetched or parsed keeps
// only its snippet.
func (t *SearchTool) attachPageContent(ctx context.Context, results []map[string]interface{}) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetch)

	for _, result := range results {
		g.Go(func() error {
			pageURL, _ := result["url"].(string)
			text, err := t.extractPage(gctx, pageURL)
			if err != nil {
				log.Debug("page extraction failed", "url", pageURL, "err", err)
				return nil
			}
			result["content"] = text
			return nil
		})
	}

	g.Wait()
}

func (t *SearchTool) extractPage(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.HTTPClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: parsed.Host}
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, 1<<20), parsed)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}
	return text, nil
}
