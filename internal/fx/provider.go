// Package fx implements FX table acquisition with caching, multi-source
// fallback, retries, and validation (C4 of spec.md §4.4).
package fx

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tellimer/indicator-normalizer/internal/econ"
	"github.com/tellimer/indicator-normalizer/internal/telemetry"
)

// Options configures a single Fetch/FetchAt call, per spec.md §4.4.
type Options struct {
	Sources    []SourceConfig
	Fallback   *econ.FXTable
	CacheOn    bool
	CacheTTL   time.Duration
	Retries    int
	Timeout    time.Duration
	AutoCorrect bool
}

// Provider is a caller-owned FX acquisition subsystem: no process-wide
// singletons (spec.md §9 "Global caches -> owned subsystems"). Construct
// one per caller with NewProvider and pass the tables it fetches into
// batch/normalize calls, which take an *econ.FXTable.
type Provider struct {
	cache   Cache
	client  *http.Client
	log     zerolog.Logger
	metrics *telemetry.Registry
}

// NewProvider builds a Provider. cache may be nil, in which case a fresh
// in-process TTLCache is used; pass an internal/fx/rediscache.Cache for a
// distributed deployment. metrics may be nil to disable instrumentation.
func NewProvider(cache Cache, logger zerolog.Logger, metrics *telemetry.Registry) *Provider {
	if cache == nil {
		cache = NewTTLCache(64)
	}
	return &Provider{
		cache:   cache,
		client:  &http.Client{},
		log:     logger,
		metrics: metrics,
	}
}

// Fetch implements the live-rate protocol of spec.md §4.4.
func (p *Provider) Fetch(ctx context.Context, base string, opts Options) (econ.FXTable, error) {
	return p.fetch(ctx, base, "", opts)
}

// FetchAt implements the historical endpoint form of spec.md §6, using
// the same source adapters with a date-keyed URL and cache key.
func (p *Provider) FetchAt(ctx context.Context, base, date string, opts Options) (econ.FXTable, error) {
	return p.fetch(ctx, base, date, opts)
}

func (p *Provider) fetch(ctx context.Context, base, date string, opts Options) (econ.FXTable, error) {
	key := cacheKey(base, date)
	if opts.CacheOn {
		if table, ok := p.cache.Get(key); ok {
			return table, nil
		}
	}

	sources := append([]SourceConfig(nil), opts.Sources...)
	sort.Slice(sources, func(i, j int) bool { return sources[i].Priority < sources[j].Priority })

	for _, cfg := range sources {
		src := newSource(cfg, p.client)
		start := time.Now()
		table, err := p.attempt(ctx, src, base, date, opts)
		if p.metrics != nil {
			p.metrics.FXFetchDuration.WithLabelValues(cfg.Name).Observe(time.Since(start).Seconds())
		}
		if err == nil {
			if opts.AutoCorrect {
				table = AutoCorrect(table)
			}
			sanitized, warnings, sanitizeErr := SanitizeFXRates(table)
			table = sanitized
			for _, w := range warnings {
				ev := p.log.Warn().Str("source", cfg.Name).Str("code", w.Code)
				if w.Rejected {
					ev = ev.Err(fmt.Errorf("%w: %s", econ.ErrInvalidFXRate, w.Code))
				}
				ev.Msg(w.Message)
			}
			if sanitizeErr != nil && len(table.Rates) == 0 {
				if p.metrics != nil {
					p.metrics.FXFetchTotal.WithLabelValues(cfg.Name, "failure").Inc()
				}
				p.log.Debug().Str("source", cfg.Name).Err(sanitizeErr).Msg("fx source rejected, trying next")
				continue
			}
			if opts.CacheOn {
				p.cache.Set(key, table, opts.CacheTTL)
			}
			if p.metrics != nil {
				p.metrics.FXFetchTotal.WithLabelValues(cfg.Name, "success").Inc()
			}
			return table, nil
		}
		if p.metrics != nil {
			p.metrics.FXFetchTotal.WithLabelValues(cfg.Name, "failure").Inc()
		}
		p.log.Debug().Str("source", cfg.Name).Err(err).Msg("fx source failed, trying next")
	}

	if opts.Fallback != nil {
		table := *opts.Fallback
		table.Source = "fallback"
		return table, nil
	}

	return econ.FXTable{}, fmt.Errorf("%w: base=%s", econ.ErrFXUnavailable, base)
}

// attempt retries a single source up to opts.Retries times with
// exponential backoff (2^attempt seconds), each bounded by opts.Timeout,
// per spec.md §4.4 step 2.
func (p *Provider) attempt(ctx context.Context, src *source, base, date string, opts Options) (econ.FXTable, error) {
	retries := opts.Retries
	if retries < 1 {
		retries = 1
	}
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return econ.FXTable{}, ctx.Err()
			}
		}
		attemptCtx := ctx
		var cancel context.CancelFunc
		if opts.Timeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		}
		table, err := src.fetch(attemptCtx, base, date)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return table, nil
		}
		lastErr = err
	}
	return econ.FXTable{}, lastErr
}

func cacheKey(base, date string) string {
	if date == "" {
		return base
	}
	return base + "@" + date
}
