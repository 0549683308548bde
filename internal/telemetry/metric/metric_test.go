package metric

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	// Must not panic.
	m.RecordCreated(KindAccess)
	m.RecordSaved(KindSession)
	m.RecordTouched(KindStep)
	m.RecordDeleted(KindAccess)
	m.AuthFailure(KindAccess, "ts_tokn_4012")
	m.BackendOp("get", nil, time.Millisecond)
	m.HTTPRequest("GET", "/health", 200, time.Millisecond)
	m.HTTPInFlightAdd(1)
	m.RateLimited()

	if m.Registry() != nil {
		t.Fatal("nil metrics should have nil registry")
	}
}

func TestCountersIncrement(t *testing.T) {
	m := New()

	m.RecordCreated(KindAccess)
	m.RecordCreated(KindAccess)
	m.RecordDeleted(KindSession)
	m.AuthFailure(KindAccess, "ts_tokn_4013")
	m.BackendOp("set", nil, time.Millisecond)
	m.BackendOp("set", errors.New("boom"), time.Millisecond)

	if got := testutil.ToFloat64(m.recordsCreated.WithLabelValues(KindAccess)); got != 2 {
		t.Fatalf("records_created_total{access} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.recordsDeleted.WithLabelValues(KindSession)); got != 1 {
		t.Fatalf("records_deleted_total{session} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.authFailures.WithLabelValues(KindAccess, "ts_tokn_4013")); got != 1 {
		t.Fatalf("auth_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.backendOps.WithLabelValues("set", "error")); got != 1 {
		t.Fatalf("backend_ops_total{set,error} = %v, want 1", got)
	}
}

func TestReasonFromCode(t *testing.T) {
	if got := ReasonFromCode("TS-TOKN-4012"); got != "ts_tokn_4012" {
		t.Fatalf("ReasonFromCode = %q, want ts_tokn_4012", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{200, "2xx"},
		{301, "3xx"},
		{401, "4xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.want {
			t.Errorf("statusClass(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
