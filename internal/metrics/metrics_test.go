package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ExamplesExtracted.WithLabelValues("pos"))
	ExamplesExtracted.WithLabelValues("pos").Inc()
	after := testutil.ToFloat64(ExamplesExtracted.WithLabelValues("pos"))
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %v -> %v", before, after)
	}

	ExamplesSkipped.WithLabelValues("pos").Inc()
	ProbeRunsTotal.WithLabelValues("pos", "pca").Inc()
	NumericDegeneracy.WithLabelValues("zero_variance").Add(3)
	TasksFailed.Inc()

	if got := testutil.ToFloat64(NumericDegeneracy.WithLabelValues("zero_variance")); got < 3 {
		t.Errorf("expected degeneracy counter >= 3, got %v", got)
	}
}

func TestObserveForward(t *testing.T) {
	// Should not panic
	ObserveForward(time.Now().Add(-time.Millisecond))
}

func TestServeEmptyAddr(t *testing.T) {
	// Empty address is a no-op
	Serve("")
}
