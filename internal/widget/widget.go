// Package widget fetches the non-article side data shown next to an edition:
// local weather and market quotes.
package widget

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"edition_collector/internal/domain"
	"edition_collector/internal/source"
)

const (
	NameWeather = "weather"
	NameMarket  = "market"

	DefaultWeatherURL = "https://api.open-meteo.com/v1"
	DefaultMarketURL  = "https://finnhub.io/api/v1"
)

type WeatherConfig struct {
	BaseURL   string
	Location  string
	Latitude  float64
	Longitude float64
	Timezone  string
	Retry     source.RetryPolicy
}

type WeatherFetcher struct {
	cfg    WeatherConfig
	client *source.Client
	logger *slog.Logger
}

func NewWeatherFetcher(cfg WeatherConfig, client *source.Client, logger *slog.Logger) *WeatherFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultWeatherURL
	}
	return &WeatherFetcher{cfg: cfg, client: client, logger: logger.With("widget", NameWeather)}
}

func (f *WeatherFetcher) Name() string {
	return NameWeather
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weather_code"`
	} `json:"current"`
	Daily struct {
		Max []float64 `json:"temperature_2m_max"`
		Min []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func (f *WeatherFetcher) Fetch(ctx context.Context, snap *domain.WidgetSnapshot) error {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(f.cfg.Latitude, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(f.cfg.Longitude, 'f', 4, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("daily", "temperature_2m_max,temperature_2m_min")
	q.Set("forecast_days", "1")
	if f.cfg.Timezone != "" {
		q.Set("timezone", f.cfg.Timezone)
	}

	var resp forecastResponse
	err := source.Retry(ctx, f.cfg.Retry, f.logger, func(ctx context.Context) error {
		return f.client.GetJSON(ctx, f.cfg.BaseURL+"/forecast?"+q.Encode(), nil, &resp)
	})
	if err != nil {
		return fmt.Errorf("fetch forecast: %w", err)
	}

	w := &domain.Weather{
		Location:    f.cfg.Location,
		Temperature: resp.Current.Temperature,
		WeatherCode: resp.Current.WeatherCode,
	}
	if len(resp.Daily.Max) > 0 {
		w.High = resp.Daily.Max[0]
	}
	if len(resp.Daily.Min) > 0 {
		w.Low = resp.Daily.Min[0]
	}
	snap.Weather = w
	return nil
}

type MarketConfig struct {
	BaseURL string
	APIKey  string
	Symbols []string
	Retry   source.RetryPolicy
}

type MarketFetcher struct {
	cfg    MarketConfig
	client *source.Client
	logger *slog.Logger
}

func NewMarketFetcher(cfg MarketConfig, client *source.Client, logger *slog.Logger) *MarketFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMarketURL
	}
	return &MarketFetcher{cfg: cfg, client: client, logger: logger.With("widget", NameMarket)}
}

func (f *MarketFetcher) Name() string {
	return NameMarket
}

type quoteResponse struct {
	Current       float64 `json:"c"`
	Change        float64 `json:"d"`
	ChangePercent float64 `json:"dp"`
	PreviousClose float64 `json:"pc"`
}

// Fetch loads every configured symbol. A symbol that fails is skipped; the
// fetch fails only when no quote could be loaded.
func (f *MarketFetcher) Fetch(ctx context.Context, snap *domain.WidgetSnapshot) error {
	if f.cfg.APIKey == "" {
		return domain.ErrMissingCredential
	}

	var (
		quotes []domain.Quote
		failed []string
		last   error
	)
	for _, symbol := range f.cfg.Symbols {
		q := url.Values{}
		q.Set("symbol", symbol)
		q.Set("token", f.cfg.APIKey)

		var resp quoteResponse
		err := source.Retry(ctx, f.cfg.Retry, f.logger, func(ctx context.Context) error {
			return f.client.GetJSON(ctx, f.cfg.BaseURL+"/quote?"+q.Encode(), nil, &resp)
		})
		if err != nil {
			f.logger.Warn("quote failed", "symbol", symbol, "error", err)
			failed = append(failed, symbol)
			last = err
			continue
		}

		quotes = append(quotes, domain.Quote{
			Symbol:        symbol,
			Price:         resp.Current,
			Change:        resp.Change,
			ChangePercent: resp.ChangePercent,
			PreviousClose: resp.PreviousClose,
		})
	}

	if len(quotes) == 0 && len(failed) > 0 {
		return fmt.Errorf("fetch quotes %s: %w", strings.Join(failed, ","), last)
	}
	snap.Quotes = quotes
	return nil
}
