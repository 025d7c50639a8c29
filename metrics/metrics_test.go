package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRecommend(t *testing.T) {
	before := testutil.ToFloat64(RecommendRequests.WithLabelValues("single", "ok"))
	ObserveRecommend("single", time.Now(), 3, nil)
	after := testutil.ToFloat64(RecommendRequests.WithLabelValues("single", "ok"))
	if after-before != 1 {
		t.Errorf("ok counter delta = %v, want 1", after-before)
	}

	before = testutil.ToFloat64(RecommendRequests.WithLabelValues("groups", "error"))
	ObserveRecommend("groups", time.Now(), 0, errors.New("boom"))
	after = testutil.ToFloat64(RecommendRequests.WithLabelValues("groups", "error"))
	if after-before != 1 {
		t.Errorf("error counter delta = %v, want 1", after-before)
	}
}

func TestObserveProvider(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequests.WithLabelValues("owned_games", "error"))
	ObserveProvider("owned_games", time.Now(), errors.New("timeout"))
	after := testutil.ToFloat64(ProviderRequests.WithLabelValues("owned_games", "error"))
	if after-before != 1 {
		t.Errorf("counter delta = %v, want 1", after-before)
	}
}
