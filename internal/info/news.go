package info

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// NewsTool searches recent news articles through the NewsData.io API.
type NewsTool struct {
	client  *Client
	cache   *Cache
	retrier *Retrier

	baseURL string
}

type NewsArgs struct {
	Query      string `json:"query"`
	Language   string `json:"language,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

func NewNewsTool(client *Client) *NewsTool {
	return &NewsTool{
		client:  client,
		cache:   NewCache(),
		retrier: NewRetrier(),
		baseURL: "https://newsdata.io/api/1/news",
	}
}

func (t *NewsTool) Name() string {
	return "get_news"
}

func (t *NewsTool) Description() string {
	return `Recherche les dernières actualités sur un sujet via NewsData.io.

EXEMPLES DE REQUÊTES:
- "Burkina Faso" (actualités du pays)
- "football africain" (sport)
- "CEDEAO" (organisation régionale)

Retourne liste d'articles avec titre, source et résumé.`
}

func (t *NewsTool) Schema() types.Schema {
	return types.Schema{
		Type: "object",
		Properties: map[string]types.Schema{
			"query": {
				Type:        "string",
				Description: "Sujet ou mots-clés de recherche",
			},
			"language": {
				Type:        "string",
				Description: "Code langue (fr, en, es)",
			},
			"max_results": {
				Type:        "integer",
				Description: "Nombre d'articles (1-10)",
			},
		},
		Required: []string{"query"},
	}
}

type newsDataResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Description string `json:"description"`
		PubDate     string `json:"pubDate"`
		SourceID    string `json:"source_id"`
	} `json:"results"`
}

func (t *NewsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	if t.client.newsDataAPIKey == "" {
		return nil, fmt.Errorf("NEWSDATA_API_KEY not configured")
	}

	var params NewsArgs
	if err := bindArgs(args, &params); err != nil {
		return nil, err
	}

	if params.Query == "" {
		return nil, fmt.Errorf("query parameter is required")
	}
	if params.Language == "" {
		params.Language = "fr"
	}
	if params.MaxResults < 1 {
		params.MaxResults = 5
	}
	if params.MaxResults > 10 {
		params.MaxResults = 10
	}

	cacheKey := t.cache.GenerateKey(params)
	if cached, found := t.cache.Get(cacheKey); found {
		log.Debug("news cache hit", "query", params.Query)
		return cached, nil
	}

	q := url.Values{}
	q.Set("apikey", t.client.newsDataAPIKey)
	q.Set("q", params.Query)
	q.Set("language", params.Language)

	var resp newsDataResponse
	err := t.retrier.ExecuteWithBackoff(ctx, func() error {
		return t.client.GetJSON(ctx, t.baseURL+"?"+q.Encode(), &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("news lookup failed: %w", err)
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("news provider returned status %q", resp.Status)
	}

	articles := make([]map[string]interface{}, 0, params.MaxResults)
	for _, article := range resp.Results {
		if len(articles) == params.MaxResults {
			break
		}
		articles = append(articles, map[string]interface{}{
			"title":     article.Title,
			"source":    article.SourceID,
			"link":      article.Link,
			"summary":   article.Description,
			"published": article.PubDate,
		})
	}

	result := map[string]interface{}{
		"query":    params.Query,
		"language": params.Language,
		"count":    len(articles),
		"articles": articles,
	}

	t.cache.Set(cacheKey, result, 5*time.Minute)
	return result, nil
}
