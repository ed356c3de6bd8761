package tagging

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/domain"
	"github.com/kailas-cloud/placebook/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterTaggingMetrics()
	os.Exit(m.Run())
}

type mockTagger struct {
	gen   domain.Generation
	err   error
	calls int
}

func (m *mockTagger) Generate(_ context.Context, _ string) (domain.Generation, error) {
	m.calls++
	return m.gen, m.err
}

func TestInstrumentedTagger_Success(t *testing.T) {
	inner := &mockTagger{gen: domain.Generation{Tags: []string{"cafe", "quiet"}, TotalTokens: 25}}
	p := NewInstrumentedTagger(inner, "test", "test-model", zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	gen, err := p.Generate(ctx, "somewhere to read")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gen.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", gen.Tags)
	}
	if !usage.Used || usage.TotalTokens != 25 {
		t.Errorf("usage = %+v, expected 25 tokens", usage)
	}
}

func TestInstrumentedTagger_WithoutUsageInContext(t *testing.T) {
	inner := &mockTagger{gen: domain.Generation{Tags: []string{"bar"}, TotalTokens: 5}}
	p := NewInstrumentedTagger(inner, "test", "test-model", zap.NewNop())

	if _, err := p.Generate(context.Background(), "drinks"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInstrumentedTagger_Refusal(t *testing.T) {
	refusal := &domain.Refusal{Reason: "nope", Status: domain.RefusalStatusRefused}
	inner := &mockTagger{gen: domain.Generation{Refusal: refusal, TotalTokens: 3}}
	p := NewInstrumentedTagger(inner, "test-refusal", "test-model-r", zap.NewNop())

	gen, err := p.Generate(context.Background(), "bad prompt")
	if err != nil {
		t.Fatalf("refusal must not be an error: %v", err)
	}
	if gen.Refusal != refusal {
		t.Errorf("refusal not propagated unchanged: %+v", gen.Refusal)
	}

	got := testutil.ToFloat64(metrics.TaggingRefusalsTotal.WithLabelValues("test-refusal", "test-model-r", domain.RefusalStatusRefused))
	if got != 1 {
		t.Errorf("refusal counter = %f, expected 1", got)
	}
}

func TestInstrumentedTagger_Error(t *testing.T) {
	inner := &mockTagger{err: errors.New("provider down")}
	p := NewInstrumentedTagger(inner, "test-err", "test-model-e", zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	_, err := p.Generate(ctx, "anything")
	if err == nil {
		t.Fatal("expected error")
	}
	if usage.Used {
		t.Error("failed generation must not mark usage")
	}
	if got := testutil.ToFloat64(metrics.TaggingErrorsTotal.WithLabelValues("test-err", "test-model-e")); got != 1 {
		t.Errorf("error counter = %f, expected 1", got)
	}
}
