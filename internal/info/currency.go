package info

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// CurrencyTool converts amounts between currencies using the open.er-api.com
// daily exchange rates (no API key required). Rate tables are cached per base
// currency for an hour.
type CurrencyTool struct {
	client  *Client
	cache   *Cache
	retrier *Retrier

	baseURL string
}

type CurrencyArgs struct {
	Amount       float64 `json:"amount"`
	FromCurrency string  `json:"from_currency"`
	ToCurrency   string  `json:"to_currency"`
}

func NewCurrencyTool(client *Client) *CurrencyTool {
	return &CurrencyTool{
		client:  client,
		cache:   NewCache(),
		retrier: NewRetrier(),
		baseURL: "https://open.er-api.com/v6/latest",
	}
}

func (t *CurrencyTool) Name() string {
	return "convert_currency"
}

func (t *CurrencyTool) Description() string {
	return `Convertit un montant entre devises avec taux en temps réel.

DEVISES COURANTES:
- XOF: Franc CFA (Burkina, Côte d'Ivoire, Sénégal)
- EUR: Euro
- USD: Dollar américain
- GHS: Cedi ghanéen

EXEMPLE: 100000 XOF → EUR`
}

func (t *CurrencyTool) Schema() types.Schema {
	return types.Schema{
		Type: "object",
		Properties: map[string]types.Schema{
			"amount": {
				Type:        "number",
				Description: "Montant à convertir (positif)",
			},
			"from_currency": {
				Type:        "string",
				Description: "Code devise source (ex: 'XOF')",
			},
			"to_currency": {
				Type:        "string",
				Description: "Code devise cible (ex: 'EUR')",
			},
		},
		Required: []string{"amount", "from_currency", "to_currency"},
	}
}

type exchangeRatesResponse struct {
	Result         string             `json:"result"`
	BaseCode       string             `json:"base_code"`
	LastUpdateUTC  string             `json:"time_last_update_utc"`
	ConversionRate map[string]float64 `json:"rates"`
}

func (t *CurrencyTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var params CurrencyArgs
	if err := bindArgs(args, &params); err != nil {
		return nil, err
	}

	if params.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %v", params.Amount)
	}

	from := strings.ToUpper(strings.TrimSpace(params.FromCurrency))
	to := strings.ToUpper(strings.TrimSpace(params.ToCurrency))
	if len(from) != 3 || len(to) != 3 {
		return nil, fmt.Errorf("currency codes must be 3 letters (ex: XOF, EUR)")
	}

	rates, err := t.fetchRates(ctx, from)
	if err != nil {
		return nil, err
	}

	rate, ok := rates.ConversionRate[to]
	if !ok {
		return nil, fmt.Errorf("devise inconnue: %s", to)
	}

	converted := math.Round(params.Amount*rate*100) / 100

	return map[string]interface{}{
		"amount":      params.Amount,
		"from":        from,
		"to":          to,
		"rate":        rate,
		"converted":   converted,
		"last_update": rates.LastUpdateUTC,
	}, nil
}

func (t *CurrencyTool) fetchRates(ctx context.Context, base string) (*exchangeRatesResponse, error) {
	if cached, found := t.cache.Get(base); found {
		log.Debug("rates cache hit", "base", base)
		return cached.(*exchangeRatesResponse), nil
	}

	var resp exchangeRatesResponse
	err := t.retrier.ExecuteWithBackoff(ctx, func() error {
		return t.client.GetJSON(ctx, t.baseURL+"/"+base, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("exchange rate lookup failed: %w", err)
	}
	if resp.Result != "success" {
		return nil, fmt.Errorf("devise inconnue: %s", base)
	}

	t.cache.Set(base, &resp, time.Hour)
	return &resp, nil
}
