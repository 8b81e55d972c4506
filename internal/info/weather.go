package info

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wakacore/info-agent-mcp/pkg/types"
)

// WeatherTool serves current conditions and a short forecast via the
// Open-Meteo geocoding and forecast APIs (no API key required).
type WeatherTool struct {
	client  *Client
	cache   *Cache
	retrier *Retrier

	geocodingURL string
	forecastURL  string
}

type WeatherArgs struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
	Days    int    `json:"days,omitempty"`
}

func NewWeatherTool(client *Client) *WeatherTool {
	return &WeatherTool{
		client:       client,
		cache:        NewCache(),
		retrier:      NewRetrier(),
		geocodingURL: "https://geocoding-api.open-meteo.com/v1/search",
		forecastURL:  "https://api.open-meteo.com/v1/forecast",
	}
}

func (t *WeatherTool) Name() string {
	return "get_weather_forecast"
}

func (t *WeatherTool) Description() string {
	return `Prévisions météo pour une ville (température, pluie, vent).

VILLES COURANTES:
Burkina: Ouagadougou, Bobo-Dioulasso, Koudougou, Ouahigouya
France: Paris, Lyon, Marseille

Retourne météo actuelle et prévisions sur plusieurs jours.`
}

func (t *WeatherTool) Schema() types.Schema {
	return types.Schema{
		Type: "object",
		Properties: map[string]types.Schema{
			"city": {
				Type:        "string",
				Description: "Nom de la ville (ex: 'Ouagadougou')",
			},
			"country": {
				Type:        "string",
				Description: "Pays (défaut: 'Burkina Faso')",
			},
			"days": {
				Type:        "integer",
				Description: "Nombre de jours de prévision (1-5)",
			},
		},
		Required: []string{"city"},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	var params WeatherArgs
	if err := bindArgs(args, &params); err != nil {
		return nil, err
	}

	if params.City == "" {
		return nil, fmt.Errorf("city parameter is required")
	}
	if params.Country == "" {
		params.Country = "Burkina Faso"
	}
	if params.Days == 0 {
		params.Days = 3
	}
	if params.Days < 1 {
		params.Days = 1
	}
	if params.Days > 5 {
		params.Days = 5
	}

	cacheKey := t.cache.GenerateKey(params)
	if cached, found := t.cache.Get(cacheKey); found {
		log.Debug("weather cache hit", "city", params.City)
		return cached, nil
	}

	loc, err := t.geocode(ctx, params.City, params.Country)
	if err != nil {
		return nil, err
	}

	var forecast *forecastResponse
	err = t.retrier.ExecuteWithBackoff(ctx, func() error {
		forecast, err = t.fetchForecast(ctx, loc, params.Days)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("weather lookup failed for %s: %w", params.City, err)
	}

	result := t.buildResult(loc, forecast)
	t.cache.Set(cacheKey, result, 30*time.Minute)
	return result, nil
}

type geoLocation struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type geocodingResponse struct {
	Results []geoLocation `json:"results"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
		WindSpeedMax     []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

func (t *WeatherTool) geocode(ctx context.Context, city, country string) (*geoLocation, error) {
	q := url.Values{}
	q.Set("name", city)
	q.Set("count", "5")
	q.Set("language", "fr")

	var resp geocodingResponse
	if err := t.client.GetJSON(ctx, t.geocodingURL+"?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("ville inconnue: %s", city)
	}

	// Prefer a match in the requested country, else take the first hit.
	for i := range resp.Results {
		if resp.Results[i].Country == country {
			return &resp.Results[i], nil
		}
	}
	return &resp.Results[0], nil
}

func (t *WeatherTool) fetchForecast(ctx context.Context, loc *geoLocation, days int) (*forecastResponse, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", loc.Latitude))
	q.Set("longitude", fmt.Sprintf("%.4f", loc.Longitude))
	q.Set("current_weather", "true")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max")
	q.Set("forecast_days", fmt.Sprintf("%d", days))
	q.Set("timezone", "auto")

	var resp forecastResponse
	if err := t.client.GetJSON(ctx, t.forecastURL+"?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (t *WeatherTool) buildResult(loc *geoLocation, forecast *forecastResponse) map[string]interface{} {
	days := make([]map[string]interface{}, 0, len(forecast.Daily.Time))
	for i, date := range forecast.Daily.Time {
		day := map[string]interface{}{"date": date}
		if i < len(forecast.Daily.TemperatureMin) {
			day["temp_min"] = forecast.Daily.TemperatureMin[i]
		}
		if i < len(forecast.Daily.TemperatureMax) {
			day["temp_max"] = forecast.Daily.TemperatureMax[i]
		}
		if i < len(forecast.Daily.PrecipitationSum) {
			day["precipitation_mm"] = forecast.Daily.PrecipitationSum[i]
		}
		if i < len(forecast.Daily.WindSpeedMax) {
			day["wind_max_kmh"] = forecast.Daily.WindSpeedMax[i]
		}
		days = append(days, day)
	}

	return map[string]interface{}{
		"city":    loc.Name,
		"country": loc.Country,
		"current": map[string]interface{}{
			"temperature_c":  forecast.CurrentWeather.Temperature,
			"wind_speed_kmh": forecast.CurrentWeather.WindSpeed,
			"conditions":     weatherCodeLabel(forecast.CurrentWeather.WeatherCode),
		},
		"forecast": days,
	}
}

// weatherCodeLabel maps WMO weather codes to short French labels.
func weatherCodeLabel(code int) string {
	switch {
	case code == 0:
		return "ciel dégagé"
	case code <= 3:
		return "partiellement nuageux"
	case code <= 48:
		return "brouillard"
	case code <= 57:
		return "bruine"
	case code <= 67:
		return "pluie"
	case code <= 77:
		return "neige"
	case code <= 82:
		return "averses"
	case code <= 86:
		return "averses de neige"
	default:
		return "orage"
	}
}

// bindArgs maps a tools/call argument map onto a typed args struct.
func bindArgs(args map[string]interface{}, out interface{}) error {
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(argsBytes, out); err != nil {
		return fmt.Errorf("failed to unmarshal arguments: %w", err)
	}
	return nil
}
