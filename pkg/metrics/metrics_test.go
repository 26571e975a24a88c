package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewManagerRegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithPrometheusRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("ratings"),
	)
	if m == nil {
		t.Fatal("manager is nil")
	}

	m.votesCast.Inc()
	m.matchupsServed.Inc()
	m.votesRejected.WithLabelValues("duplicate").Inc()
	m.totalPlayers.Set(42)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}
}

func TestGlobalHelpers(t *testing.T) {
	// Exercise the package-level helpers on the singleton manager.
	RecordVoteCast()
	RecordVoteDuplicate()
	RecordVoteRejected("no_username")
	RecordVoteLatency(3.5)
	RecordMatchupServed()
	RecordFilterFallback()
	RecordStoreError()
	UpdateTotalPlayers(10)
	UpdateActiveSessions(2)
	RecordHTTPRequest("vote", "POST", "200")
	RecordHTTPRequestDuration("vote", "POST", "200", 1.25)

	if GetRegistry() == nil {
		t.Fatal("registry is nil")
	}
}
