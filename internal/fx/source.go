package fx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// Format names the wire-shape descriptor an adapter knows how to parse,
// per spec.md §6's two built-in adapters.
type Format string

const (
	FormatECBLike              Format = "ecb-like"
	FormatExchangeRateAPILike  Format = "exchangerate-api-like"
)

// SourceConfig describes one FX source in priority order (ascending
// priority value = tried first), matching spec.md §4.4's options.sources.
type SourceConfig struct {
	Name      string
	Endpoint  string // template "<endpoint>/<base>"
	APIKey    string
	Format    Format
	Priority  int
	RateLimit rate.Limit // requests per second; 0 disables limiting
	Burst     int
}

// source is the runtime wrapper around a SourceConfig: an HTTP client, a
// per-source rate limiter (golang.org/x/time/rate, as the teacher wires
// it in internal/net/ratelimit), and a per-source circuit breaker
// (sony/gobreaker, as the teacher wires it in
// internal/infrastructure/providers/circuitbreakers.go).
type source struct {
	cfg     SourceConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func newSource(cfg SourceConfig, httpClient *http.Client) *source {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &source{cfg: cfg, client: httpClient, limiter: limiter, breaker: breaker}
}

// fetch performs one attempt against this source for the historical
// endpoint form when date is non-empty, else the live endpoint form.
func (s *source) fetch(ctx context.Context, base, date string) (econ.FXTable, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return econ.FXTable{}, fmt.Errorf("%w: %s: rate limiter: %v", econ.ErrFXSourceFailure, s.cfg.Name, err)
		}
	}
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.doFetch(ctx, base, date)
	})
	if err != nil {
		return econ.FXTable{}, fmt.Errorf("%w: %s: %v", econ.ErrFXSourceFailure, s.cfg.Name, err)
	}
	return result.(econ.FXTable), nil
}

func (s *source) doFetch(ctx context.Context, base, date string) (econ.FXTable, error) {
	suffix := base
	if date != "" {
		suffix = date
	}
	url := fmt.Sprintf("%s/%s", s.cfg.Endpoint, suffix)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return econ.FXTable{}, err
	}
	if s.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", s.cfg.APIKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return econ.FXTable{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return econ.FXTable{}, fmt.Errorf("status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return econ.FXTable{}, err
	}
	table, err := parseBody(s.cfg.Format, body)
	if err != nil {
		return econ.FXTable{}, err
	}
	table.Source = "live"
	table.SourceID = s.cfg.Name
	return table, nil
}

// ecbLikeWire mirrors the "ECB-like" wire format of spec.md §6:
// {base, rates, date}.
type ecbLikeWire struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
	Date  string             `json:"date"`
}

// exchangeRateAPILikeWire mirrors the "exchangerate-api-like" format,
// which accepts either field-name generation via alternates.
type exchangeRateAPILikeWire struct {
	Base            string             `json:"base"`
	BaseCode        string             `json:"base_code"`
	Rates           map[string]float64 `json:"rates"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	Timestamp       json.Number        `json:"timestamp"`
	Date            string             `json:"date"`
}

func parseBody(format Format, body []byte) (econ.FXTable, error) {
	switch format {
	case FormatECBLike:
		var w ecbLikeWire
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(&w); err != nil {
			return econ.FXTable{}, err
		}
		dates := map[string]string{}
		if w.Date != "" {
			for code := range w.Rates {
				dates[code] = w.Date
			}
		}
		return econ.FXTable{Base: w.Base, Rates: w.Rates, Dates: dates}, nil
	case FormatExchangeRateAPILike:
		var w exchangeRateAPILikeWire
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(&w); err != nil {
			return econ.FXTable{}, err
		}
		base := w.Base
		if base == "" {
			base = w.BaseCode
		}
		rates := w.Rates
		if rates == nil {
			rates = w.ConversionRates
		}
		dates := map[string]string{}
		date := w.Date
		if date == "" && w.Timestamp != "" {
			if secs, err := strconv.ParseInt(string(w.Timestamp), 10, 64); err == nil {
				date = time.Unix(secs, 0).UTC().Format("2006-01-02")
			}
		}
		if date != "" {
			for code := range rates {
				dates[code] = date
			}
		}
		return econ.FXTable{Base: base, Rates: rates, Dates: dates}, nil
	default:
		return econ.FXTable{}, fmt.Errorf("unknown fx source format %q", format)
	}
}
