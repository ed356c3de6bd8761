package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRegisterTaggingMetrics_Idempotent(t *testing.T) {
	RegisterTaggingMetrics()
	RegisterTaggingMetrics()

	err := prometheus.Register(TagCacheTotal)
	var already prometheus.AlreadyRegisteredError
	if err == nil {
		t.Fatal("expected tag cache counter to be registered already")
	}
	if !asAlreadyRegistered(err, &already) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func asAlreadyRegistered(err error, target *prometheus.AlreadyRegisteredError) bool {
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if ok {
		*target = are
	}
	return ok
}
