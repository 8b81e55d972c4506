package info

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// PrayerTimesTool returns the 5 daily prayer times through the AlAdhan API
// (no API key required).
type PrayerTimesTool struct {
	client  *Client
	cache   *Cache
	retrier *Retrier

	baseURL string
}

type PrayerArgs struct {
	City string `json:"city,omitempty"`
	Date string `json:"date,omitempty"`
}

// The 5 daily prayers in order, with Arabic and French names.
var prayers = []struct {
	Key    string
	Arabic string
	French string
}{
	{"Fajr", "الفجر", "Fajr (aube)"},
	{"Dhuhr", "الظهر", "Dhuhr (midi)"},
	{"Asr", "العصر", "Asr (après-midi)"},
	{"Maghrib", "المغرب", "Maghrib (coucher du soleil)"},
	{"Isha", "العشاء", "Isha (nuit)"},
}

func NewPrayerTimesTool(client *Client) *PrayerTimesTool {
	return &PrayerTimesTool{
		client:  client,
		cache:   NewCache(),
		retrier: NewRetrier(),
		baseURL: "https://api.aladhan.com/v1/timingsByCity",
	}
}

func (t *PrayerTimesTool) Name() string {
	return "get_prayer_times"
}

func (t *PrayerTimesTool) Description() string {
	return `Horaires des 5 prières quotidiennes islamiques (Fajr, Dhuhr, Asr, Maghrib, Isha).

VILLES BURKINA SUPPORTÉES:
- Ouagadougou (capitale)
- Bobo-Dioulasso
- Koudougou
- Ouahigouya
- Banfora`
}

func (t *PrayerTimesTool) Schema() types.Schema {
	return types.Schema{
		Type: "object",
		Properties: map[string]types.Schema{
			"city": {
				Type:        "string",
				Description: "Ville du Burkina Faso (défaut: Ouagadougou)",
			},
			"date": {
				Type:        "string",
				Description: "Date spécifique (YYYY-MM-DD) ou aujourd'hui par défaut",
			},
		},
		Required: []string{},
	}
}

type aladhanResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
		Date    struct {
			Readable string `json:"readable"`
			Hijri    struct {
				Date string `json:"date"`
			} `json:"hijri"`
		} `json:"date"`
	} `json:"data"`
}

func (t *PrayerTimesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var params PrayerArgs
	if err := bindArgs(args, &params); err != nil {
		return nil, err
	}

	if params.City == "" {
		params.City = "Ouagadougou"
	}

	endpoint := t.baseURL
	if params.Date != "" {
		parsed, err := time.Parse("2006-01-02", params.Date)
		if err != nil {
			return nil, fmt.Errorf("date invalide %q, format attendu: YYYY-MM-DD", params.Date)
		}
		// AlAdhan takes the date as a DD-MM-YYYY path segment.
		endpoint += "/" + parsed.Format("02-01-2006")
	}

	q := url.Values{}
	q.Set("city", params.City)
	q.Set("country", "Burkina Faso")
	q.Set("method", "2")

	cacheKey := t.cache.GenerateKey(params)
	if cached, found := t.cache.Get(cacheKey); found {
		log.Debug("prayer times cache hit", "city", params.City)
		return cached, nil
	}

	var resp aladhanResponse
	err := t.retrier.ExecuteWithBackoff(ctx, func() error {
		return t.client.GetJSON(ctx, endpoint+"?"+q.Encode(), &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("prayer times lookup failed for %s: %w", params.City, err)
	}
	if resp.Code != 200 || len(resp.Data.Timings) == 0 {
		return nil, fmt.Errorf("horaires indisponibles pour %s", params.City)
	}

	times := make([]map[string]interface{}, 0, len(prayers))
	for _, p := range prayers {
		times = append(times, map[string]interface{}{
			"name":   p.French,
			"arabic": p.Arabic,
			"time":   resp.Data.Timings[p.Key],
		})
	}

	result := map[string]interface{}{
		"city":       params.City,
		"date":       resp.Data.Date.Readable,
		"hijri_date": resp.Data.Date.Hijri.Date,
		"times":      times,
	}

	t.cache.Set(cacheKey, result, 6*time.Hour)
	return result, nil
}
