package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ProjectMutations.WithLabelValues("complete"))
	IncrementMutation("complete")
	IncrementMutation("complete")
	if got := testutil.ToFloat64(ProjectMutations.WithLabelValues("complete")); got != before+2 {
		t.Errorf("mutations = %v, want %v", got, before+2)
	}

	before = testutil.ToFloat64(NotificationsSent.WithLabelValues("digest", "sent"))
	IncrementNotification("digest", "sent")
	if got := testutil.ToFloat64(NotificationsSent.WithLabelValues("digest", "sent")); got != before+1 {
		t.Errorf("notifications = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(QueriesAnswered.WithLabelValues("focus"))
	IncrementQuery("focus")
	if got := testutil.ToFloat64(QueriesAnswered.WithLabelValues("focus")); got != before+1 {
		t.Errorf("queries = %v, want %v", got, before+1)
	}
}

func TestHistograms(t *testing.T) {
	RecordHTTPRequestDuration("GET", "/api/kpi", "200", 3*time.Millisecond)
	RecordStoreOperation("list", time.Millisecond)
	if n := testutil.CollectAndCount(HTTPRequestDuration); n < 1 {
		t.Errorf("HTTPRequestDuration series = %d, want >= 1", n)
	}
	if n := testutil.CollectAndCount(StoreOperationDuration); n < 1 {
		t.Errorf("StoreOperationDuration series = %d, want >= 1", n)
	}
}
