// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordSearchObservesHistograms(t *testing.T) {
	durations := histogramCount(t, SearchDuration)
	generations := histogramCount(t, SearchGenerations)

	RecordSearch(250*time.Millisecond, 12, 1200, 1.5, false, nil)
	RecordSearch(time.Millisecond, 0, 0, 0, false, errors.New("canceled"))

	if d := histogramCount(t, SearchDuration) - durations; d != 2 {
		t.Errorf("duration samples delta = %d, want 2", d)
	}
	// Failed runs have no generation count.
	if d := histogramCount(t, SearchGenerations) - generations; d != 1 {
		t.Errorf("generation samples delta = %d, want 1", d)
	}
}

func TestRecordRerankObservesCandidates(t *testing.T) {
	before := histogramCount(t, RerankCandidates)
	RecordRerank(time.Millisecond, 9, nil, nil)
	RecordRerank(time.Millisecond, 0, errors.New("lookup"), nil)
	if d := histogramCount(t, RerankCandidates) - before; d != 1 {
		t.Errorf("candidate samples delta = %d, want 1", d)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))
	RecordAPIRequest("GET", "/api/v1/health", "200", 3*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/health", "200"))

	if after-before != 1 {
		t.Errorf("api_requests_total increased by %v, want 1", after-before)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("gauge = %v, want %v", got, before+1)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("gauge = %v, want %v", got, before)
	}
}

func TestRecordSearchOutcomes(t *testing.T) {
	stagnated := testutil.ToFloat64(SearchRunsTotal.WithLabelValues("stagnated"))
	maxed := testutil.ToFloat64(SearchRunsTotal.WithLabelValues("max_generations"))
	failed := testutil.ToFloat64(SearchRunsTotal.WithLabelValues("error"))

	RecordSearch(time.Second, 7, 700, 3.25, true, nil)
	RecordSearch(time.Second, 20, 2000, 2.5, false, nil)
	RecordSearch(time.Millisecond, 0, 0, 0, false, errors.New("boom"))

	if d := testutil.ToFloat64(SearchRunsTotal.WithLabelValues("stagnated")) - stagnated; d != 1 {
		t.Errorf("stagnated delta = %v", d)
	}
	if d := testutil.ToFloat64(SearchRunsTotal.WithLabelValues("max_generations")) - maxed; d != 1 {
		t.Errorf("max_generations delta = %v", d)
	}
	if d := testutil.ToFloat64(SearchRunsTotal.WithLabelValues("error")) - failed; d != 1 {
		t.Errorf("error delta = %v", d)
	}
	if got := testutil.ToFloat64(SearchBestFitness); got != 2.5 {
		t.Errorf("best fitness gauge = %v, want 2.5", got)
	}
}

func TestRecordRerank(t *testing.T) {
	empty := errors.New("empty")
	success := testutil.ToFloat64(RerankTotal.WithLabelValues("success"))
	emptyCount := testutil.ToFloat64(RerankTotal.WithLabelValues("empty"))
	failed := testutil.ToFloat64(RerankTotal.WithLabelValues("error"))

	RecordRerank(time.Millisecond, 12, nil, empty)
	RecordRerank(time.Millisecond, 0, empty, empty)
	RecordRerank(time.Millisecond, 0, errors.New("lookup"), empty)

	if d := testutil.ToFloat64(RerankTotal.WithLabelValues("success")) - success; d != 1 {
		t.Errorf("success delta = %v", d)
	}
	if d := testutil.ToFloat64(RerankTotal.WithLabelValues("empty")) - emptyCount; d != 1 {
		t.Errorf("empty delta = %v", d)
	}
	if d := testutil.ToFloat64(RerankTotal.WithLabelValues("error")) - failed; d != 1 {
		t.Errorf("error delta = %v", d)
	}
}

func TestCircuitBreakerState(t *testing.T) {
	SetCircuitBreakerState("progress", 2)
	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("progress")); got != 2 {
		t.Errorf("state = %v, want 2", got)
	}
}
