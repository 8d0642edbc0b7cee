package bootstrap

import (
	"context"
	"fmt"

	"github.com/tiksanauto/cartitle/internal/config"
	"github.com/tiksanauto/cartitle/internal/correction"
	"github.com/tiksanauto/cartitle/internal/lexicon"
	"github.com/tiksanauto/cartitle/internal/metrics"
	"github.com/tiksanauto/cartitle/internal/title"
	"github.com/tiksanauto/cartitle/internal/titlecache"
	"github.com/tiksanauto/cartitle/internal/translator"
	"github.com/tiksanauto/cartitle/internal/translator/google"
)

// LoadLexicons returns the brand and term lexicons, read from the configured
// files or the embedded defaults.
func LoadLexicons(cfg config.LexiconConfig) (brands *lexicon.Lexicon, terms *lexicon.Lexicon, err error) {
	brands, err = lexicon.Load("brands", cfg.BrandsFile, lexicon.DefaultBrands)
	if err != nil {
		return nil, nil, fmt.Errorf("lexicon.Load(brands) > %w", err)
	}
	terms, err = lexicon.Load("terms", cfg.TermsFile, lexicon.DefaultTerms)
	if err != nil {
		return nil, nil, fmt.Errorf("lexicon.Load(terms) > %w", err)
	}
	return brands, terms, nil
}

// NewTranslator builds the throttled, retrying client over the configured
// provider. The provider is closed by a shutdown hook on app.
func NewTranslator(app *App, cfg config.TranslatorConfig, m *metrics.Metrics) (*translator.Client, error) {
	if cfg.Provider != "google" {
		return nil, fmt.Errorf("unsupported translation provider %q", cfg.Provider)
	}

	googleClient := google.NewClient(google.Config{
		BaseURL:        cfg.BaseURL,
		SourceLanguage: cfg.SourceLanguage,
		TargetLanguage: cfg.TargetLanguage,
		Timeout:        cfg.RequestTimeout,
	})
	app.AddShutdownHook(func(context.Context) error {
		return googleClient.Close()
	})

	var provider translator.Provider = googleClient
	if cfg.Breaker.Enabled {
		provider = translator.NewBreaker(provider, translator.BreakerSettings{
			Name:         cfg.Provider,
			MaxRequests:  cfg.Breaker.MaxRequests,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
			MinRequests:  cfg.Breaker.MinRequests,
			FailureRatio: cfg.Breaker.FailureRatio,
		})
	}

	return translator.NewClient(provider, translator.NewThrottle(cfg.RateLimitInterval), translator.ClientOptions{
		MaxAttempts:    cfg.MaxAttempts,
		RetryDelayBase: cfg.RetryDelayBase,
		Metrics:        m,
	}), nil
}

// OpenCache opens the configured cache and closes it on shutdown.
func OpenCache(ctx context.Context, app *App, cfg config.CacheConfig, m *metrics.Metrics) (titlecache.Cache, error) {
	cache, err := titlecache.Open(ctx, cfg, m)
	if err != nil {
		return nil, fmt.Errorf("titlecache.Open > %w", err)
	}
	app.AddShutdownHook(func(context.Context) error {
		return cache.Close()
	})
	return cache, nil
}

type NormalizerOptions struct {
	// Offline skips the cache and the translation provider.
	Offline bool
}

func NewNormalizer(
	ctx context.Context,
	app *App,
	cfg *config.Config,
	m *metrics.Metrics,
	options NormalizerOptions,
) (*title.Normalizer, error) {
	brands, terms, err := LoadLexicons(cfg.Lexicon)
	if err != nil {
		return nil, err
	}

	normalizerOptions := title.Options{
		Brands:           brands,
		Terms:            terms,
		Corrector:        correction.Default(),
		Metrics:          m,
		BatchConcurrency: cfg.Translator.BatchConcurrency,
	}
	if !options.Offline {
		client, err := NewTranslator(app, cfg.Translator, m)
		if err != nil {
			return nil, err
		}
		normalizerOptions.Translator = client

		cache, err := OpenCache(ctx, app, cfg.Cache, m)
		if err != nil {
			return nil, err
		}
		normalizerOptions.Cache = cache
	}

	normalizer, err := title.New(normalizerOptions)
	if err != nil {
		return nil, fmt.Errorf("title.New > %w", err)
	}
	return normalizer, nil
}
