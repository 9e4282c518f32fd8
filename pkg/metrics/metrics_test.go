package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerRegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("testns"),
		WithSubsystem("testsub"),
		WithPrometheusRegistry(reg),
	)
	if m == nil {
		t.Fatal("expected a manager")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) != 0 {
		// Counters and gauges only appear after first use; nothing has been
		// recorded on this manager yet.
		t.Logf("gathered %d families before any writes", len(families))
	}

	m.comparisonsTotal.Inc()
	m.playersTotal.Set(42)
	m.httpRequests.WithLabelValues("players", "GET", "200").Inc()

	families, err = reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := map[string]bool{}
	for _, f := range families {
		found[f.GetName()] = true
	}
	for _, want := range []string{
		"testns_testsub_comparisons_total",
		"testns_testsub_players_total",
		"testns_testsub_http_requests_total",
	} {
		if !found[want] {
			t.Errorf("expected metric family %q to be registered", want)
		}
	}
}

func TestGlobalHelpersDoNotPanic(t *testing.T) {
	RecordComparison()
	RecordAnalysis()
	RecordScoringLatency(1.5)
	RecordReportCreated()
	RecordPDFExport()
	RecordPDFRenderLatency(12)
	RecordQuotaDenied("pdf_export")
	RecordCheckoutSession("pro")
	RecordTierChange("pro")
	RecordRankingUpdate()
	UpdateRankedPlayers(10)
	RecordRankingQueryLatency(0.2)
	UpdatePlayersTotal(100)
	RecordLoginSuccess()
	RecordLoginFailure()
	UpdateActiveSessions(3)
	UpdateQueueSize(5)
	UpdateQueueCapacity(100)
	UpdateQueueUtilization(0.05)
	RecordQueueEnqueue()
	RecordQueueDequeue()
	RecordQueueEnqueueError()
	RecordJobProcessed()
	RecordJobFailed()
	RecordJobDuplicate()
	RecordJobProcessingLatency(30)
	UpdateWorkerCount(4)
	UpdateWorkerActiveCount(4)
	UpdateWorkerJobsPerSecond(1.2)
	RecordHTTPRequest("players", "GET", "200")
	RecordHTTPRequestDuration("players", "GET", "200", 4.2)
	RecordErrorByComponent("queue", "full")
	RecordErrorByType("client_error", "medium")
	RecordErrorByEndpoint("players", "GET", "not_found")
	RecordErrorLatency("http", "client_error", 2.1)
	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(12)
	RecordSystemGCPauseTime(0.5)

	if GetRegistry() == nil {
		t.Fatal("expected a custom registry")
	}
}
