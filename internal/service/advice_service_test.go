package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/arecabot/internal/advisor"
	"github.com/alexanderramin/arecabot/internal/knowledge"
	"github.com/alexanderramin/arecabot/internal/metrics"
)

func newAdviceFixture(t *testing.T) (AdviceService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	return NewAdviceService(knowledge.MustDefault(), NewMetricsUseCaseObserver(m)), m
}

func TestAdviceService_Pesticide(t *testing.T) {
	svc, m := newAdviceFixture(t)

	a := svc.Pesticide(context.Background(), advisor.PesticideInput{Temperature: 30, Humidity: 75, Rainfall: 2, WindSpeed: 8})

	assert.Equal(t, advisor.SprayExcellent, a.Result.Status())
	assert.Contains(t, a.Text, "EXCELLENT")
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Advice.WithLabelValues("pesticide")))
}

func TestAdviceService_FertilizerAndHarvest(t *testing.T) {
	svc, m := newAdviceFixture(t)
	ctx := context.Background()

	f := svc.Fertilizer(ctx, advisor.DefaultFertilizerInput())
	assert.NotZero(t, f.Result.NPK.Nitrogen)
	assert.NotEmpty(t, f.Text)

	h := svc.Harvest(ctx, advisor.HarvestInput{FruitMaturity: 95, Temperature: 28, Rainfall: 50, Humidity: 80, TreeAge: 10})
	assert.Zero(t, h.Result.EstimatedDays)

	assert.Equal(t, 1.0, promtest.ToFloat64(m.Advice.WithLabelValues("fertilizer")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Advice.WithLabelValues("harvest")))
}

func TestAdviceService_Diagnose(t *testing.T) {
	svc, _ := newAdviceFixture(t)
	ctx := context.Background()

	known := svc.Diagnose(ctx, "Stem_bleeding")
	assert.True(t, known.Result.Known)
	assert.Contains(t, known.Text, "STEM BLEEDING")

	healthy := svc.Diagnose(ctx, "Healthy_Nut")
	assert.True(t, healthy.Result.Label.Healthy)
	assert.Contains(t, healthy.Text, "**HEALTHY NUT**")

	unknown := svc.Diagnose(ctx, "leaf blight")
	assert.False(t, unknown.Result.Known)
	assert.Contains(t, unknown.Text, "GENERAL TREATMENT PROTOCOL")
}

func TestAdviceService_WeatherTips(t *testing.T) {
	svc, m := newAdviceFixture(t)

	a := svc.WeatherTips(context.Background(), advisor.WeatherReading{Temperature: 38, Humidity: 60}, time.June)

	assert.NotEmpty(t, a.Result)
	assert.Contains(t, a.Text, "ARECANUT CULTIVATION TIPS")
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Advice.WithLabelValues("weather")))
}

func TestAdviceService_Scheme(t *testing.T) {
	svc, _ := newAdviceFixture(t)
	ctx := context.Background()

	byKey, _, ok := svc.Scheme(ctx, "dasd mini mission projects")
	require.True(t, ok)
	assert.Equal(t, "dasd_mini_mission_projects", byKey.Key)

	kb := knowledge.MustDefault()
	want := kb.Schemes()[0]
	byName, _, ok := svc.Scheme(ctx, "  "+want.Name+" ")
	require.True(t, ok)
	assert.Equal(t, want.Key, byName.Key)
}

func TestAdviceService_SchemeSuggestions(t *testing.T) {
	svc, _ := newAdviceFixture(t)

	_, suggestions, ok := svc.Scheme(context.Background(), "soil card")
	assert.False(t, ok)
	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), maxSuggestions)
}

func TestAdviceService_SuggestDiseases(t *testing.T) {
	svc, _ := newAdviceFixture(t)

	assert.ElementsMatch(t, []string{"stem_bleeding", "stem_cracking"}, svc.SuggestDiseases("stem"))
	assert.Empty(t, svc.SuggestDiseases("zzz"))
	assert.Empty(t, svc.SuggestDiseases(""))
}
