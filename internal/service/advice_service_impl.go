package service

import (
	"context"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/knowledge"
	"github.com/alexanderramin/arecabot/internal/render"
)

// maxSuggestions caps "did you mean" lists.
const maxSuggestions = 3

type adviceService struct {
	kb       *knowledge.Base
	observer UseCaseObserver
}

func NewAdviceService(kb *knowledge.Base, observers ...UseCaseObserver) AdviceService {
	return &adviceService{kb: kb, observer: useCaseObserverOrNoop(observers)}
}

func (s *adviceService) observe(ctx context.Context, kind string, startedAt time.Time, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      UseCaseAdvicePrefix + kind,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields:    fields,
	})
}

func (s *adviceService) Pesticide(ctx context.Context, in advisor.PesticideInput) Advice[advisor.PesticideAdvice] {
	startedAt := time.Now()
	a := advisor.Pesticide(in)
	s.observe(ctx, "pesticide", startedAt, map[string]any{"status": string(a.Status())})
	return Advice[advisor.PesticideAdvice]{Result: a, Text: render.Pesticide(a)}
}

func (s *adviceService) Fertilizer(ctx context.Context, in advisor.FertilizerInput) Advice[advisor.FertilizerAdvice] {
	startedAt := time.Now()
	a := advisor.Fertilizer(in)
	s.observe(ctx, "fertilizer", startedAt, map[string]any{"stage": in.GrowthStage})
	return Advice[advisor.FertilizerAdvice]{Result: a, Text: render.Fertilizer(a)}
}

func (s *adviceService) Harvest(ctx context.Context, in advisor.HarvestInput) Advice[advisor.HarvestAdvice] {
	startedAt := time.Now()
	a := advisor.Harvest(in)
	s.observe(ctx, "harvest", startedAt, map[string]any{"days": a.EstimatedDays})
	return Advice[advisor.HarvestAdvice]{Result: a, Text: render.Harvest(a)}
}

func (s *adviceService) Diagnose(ctx context.Context, label string) Advice[advisor.Diagnosis] {
	startedAt := time.Now()
	d := advisor.Diagnose(s.kb, label)
	s.observe(ctx, "disease", startedAt, map[string]any{"label": d.Label.Key, "known": d.Known, "healthy": d.Label.Healthy})
	return Advice[advisor.Diagnosis]{Result: d, Text: render.Diagnosis(d)}
}

func (s *adviceService) WeatherTips(ctx context.Context, w advisor.WeatherReading, month time.Month) Advice[[]string] {
	startedAt := time.Now()
	tips := advisor.WeatherTips(w, month)
	s.observe(ctx, "weather", startedAt, map[string]any{"tips": len(tips)})
	return Advice[[]string]{Result: tips, Text: render.WeatherTips(tips)}
}

func (s *adviceService) Scheme(ctx context.Context, name string) (knowledge.Scheme, []string, bool) {
	startedAt := time.Now()
	query := strings.ToLower(strings.TrimSpace(name))
	key := strings.ReplaceAll(query, " ", "_")

	var names []string
	for _, sc := range s.kb.Schemes() {
		if sc.Key == key || strings.ToLower(sc.Name) == query {
			s.observe(ctx, "scheme", startedAt, map[string]any{"scheme": sc.Key})
			return sc, nil, true
		}
		names = append(names, sc.Name)
	}
	return knowledge.Scheme{}, suggest(query, names), false
}

func (s *adviceService) Schemes(ctx context.Context) Advice[[]knowledge.Scheme] {
	startedAt := time.Now()
	schemes := s.kb.Schemes()
	s.observe(ctx, "scheme", startedAt, map[string]any{"listing": true})
	return Advice[[]knowledge.Scheme]{Result: schemes, Text: render.SchemeList(schemes)}
}

func (s *adviceService) SuggestDiseases(query string) []string {
	var keys []string
	for _, d := range s.kb.Diseases() {
		keys = append(keys, d.Key)
	}
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(query)))
	return suggest(norm, keys)
}

// suggest returns up to maxSuggestions candidates that contain the query's
// characters in order, best match first.
func suggest(query string, candidates []string) []string {
	if query == "" {
		return nil
	}
	matches := fuzzy.Find(query, candidates)
	out := make([]string, 0, min(len(matches), maxSuggestions))
	for i := 0; i < len(matches) && i < maxSuggestions; i++ {
		out = append(out, matches[i].Str)
	}
	return out
}
