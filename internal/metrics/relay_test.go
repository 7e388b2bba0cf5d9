package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_IdempotentOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := Register(reg); err != nil {
		t.Fatalf("second register must ignore duplicates: %v", err)
	}
}

func TestGateRejections_Counts(t *testing.T) {
	before := testutil.ToFloat64(GateRejections.WithLabelValues("client", "invalid_token"))
	GateRejections.WithLabelValues("client", "invalid_token").Inc()
	after := testutil.ToFloat64(GateRejections.WithLabelValues("client", "invalid_token"))
	if after-before != 1 {
		t.Fatalf("expected +1, got %v", after-before)
	}
}
