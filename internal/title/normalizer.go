// Package title turns a Chinese car listing title into an English one:
// cache, lexicon substitution, machine translation of what is left, correction.
package title

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tiksanauto/cartitle/internal/correction"
	"github.com/tiksanauto/cartitle/internal/lexicon"
	"github.com/tiksanauto/cartitle/internal/metrics"
	"github.com/tiksanauto/cartitle/internal/titlecache"
	"github.com/tiksanauto/cartitle/internal/translator"
)

const DefaultBatchConcurrency = 4

// Path names the branch of the pipeline that produced a title.
type Path string

const (
	PathEmpty       Path = "empty"
	PathCached      Path = "cached"
	PathSubstituted Path = "substituted"
	PathTranslated  Path = "translated"
	PathDegraded    Path = "degraded"
	PathRecovered   Path = "recovered"
)

type Outcome struct {
	Title  string
	Path   Path
	Reason translator.Reason
}

// Translator is satisfied by *translator.Client.
type Translator interface {
	Translate(ctx context.Context, text string) translator.Result
}

type Options struct {
	Brands    *lexicon.Lexicon
	Terms     *lexicon.Lexicon
	Corrector *correction.Corrector
	// Cache defaults to titlecache.NopCache.
	Cache titlecache.Cache
	// Translator may be nil, which keeps the normalizer offline.
	Translator       Translator
	Metrics          *metrics.Metrics
	BatchConcurrency int
}

type Normalizer struct {
	brands           *lexicon.Lexicon
	terms            *lexicon.Lexicon
	corrector        *correction.Corrector
	cache            titlecache.Cache
	translator       Translator
	metrics          *metrics.Metrics
	batchConcurrency int
}

func New(options Options) (*Normalizer, error) {
	if options.Brands == nil || options.Terms == nil {
		return nil, errors.New("brand and term lexicons are required")
	}
	if options.Corrector == nil {
		options.Corrector = correction.Default()
	}
	if options.Cache == nil {
		options.Cache = titlecache.NopCache{}
	}
	if options.BatchConcurrency <= 0 {
		options.BatchConcurrency = DefaultBatchConcurrency
	}

	return &Normalizer{
		brands:           options.Brands,
		terms:            options.Terms,
		corrector:        options.Corrector,
		cache:            options.Cache,
		translator:       options.Translator,
		metrics:          options.Metrics,
		batchConcurrency: options.BatchConcurrency,
	}, nil
}

// TranslateTitle returns the English title for source. It never fails; on
// trouble it returns the best result it has, down to the input itself.
func (n *Normalizer) TranslateTitle(ctx context.Context, source string) string {
	return n.Translate(ctx, source).Title
}

func (n *Normalizer) Translate(ctx context.Context, source string) Outcome {
	start := time.Now()
	outcome := n.translate(ctx, source)
	n.metrics.Title(string(outcome.Path), time.Since(start))
	return outcome
}

func (n *Normalizer) translate(ctx context.Context, source string) Outcome {
	source = strings.TrimSpace(source)
	if source == "" {
		return Outcome{Title: source, Path: PathEmpty}
	}

	if cached, ok := n.cache.Get(ctx, source); ok {
		slog.Default().Debug("Cache hit", "title", source)
		return Outcome{Title: cached, Path: PathCached}
	}

	outcome, err := n.pipeline(ctx, source)
	if err != nil {
		slog.Default().Error("Title translation failed, using substitution only",
			"title", source,
			"error", err)
		return Outcome{Title: n.fallback(source), Path: PathRecovered}
	}

	switch outcome.Path {
	case PathSubstituted, PathTranslated:
		if outcome.Title != "" && outcome.Title != source {
			n.cache.Set(ctx, source, outcome.Title)
		}
	case PathDegraded:
		slog.Default().Warn("Title degraded",
			"title", source,
			"result", outcome.Title,
			"reason", outcome.Reason)
	}
	return outcome
}

func (n *Normalizer) pipeline(ctx context.Context, source string) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	text := n.substitute(source)
	outcome.Path = PathSubstituted
	if ContainsSourceScript(text) {
		if n.translator == nil {
			outcome.Path = PathDegraded
			outcome.Reason = translator.ReasonDisabled
		} else {
			result := n.translator.Translate(ctx, text)
			text = result.Text
			outcome.Path = PathTranslated
			if result.Degraded() {
				outcome.Path = PathDegraded
				outcome.Reason = result.Reason
			}
		}
	}

	outcome.Title = strings.TrimSpace(n.corrector.Correct(text))
	return outcome, nil
}

// fallback is the offline pipeline, or the trimmed input if even that panics.
func (n *Normalizer) fallback(source string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Error("Substitution failed", "title", source, "panic", r)
			result = source
		}
	}()
	return n.Substitute(source)
}

func (n *Normalizer) substitute(source string) string {
	return n.terms.Substitute(n.brands.Substitute(source))
}

// Substitute runs lexicon substitution and correction without the cache or
// the provider.
func (n *Normalizer) Substitute(source string) string {
	return strings.TrimSpace(n.corrector.Correct(n.substitute(strings.TrimSpace(source))))
}

// TranslateBatch translates sources concurrently and returns the titles in
// input order.
func (n *Normalizer) TranslateBatch(ctx context.Context, sources []string) []string {
	titles := make([]string, len(sources))
	var g errgroup.Group
	g.SetLimit(n.batchConcurrency)
	for i, source := range sources {
		g.Go(func() error {
			titles[i] = n.TranslateTitle(ctx, source)
			return nil
		})
	}
	_ = g.Wait()
	return titles
}

// ContainsSourceScript reports whether text still holds CJK unified ideographs.
func ContainsSourceScript(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}
