package health

import (
	"context"
	"errors"
	"testing"

	"github.com/medreserve/predict/internal/predictor/ensemble"
)

// --- Mocks ---

type mockModels struct {
	status ensemble.LoadStatus
}

func (m *mockModels) Status() ensemble.LoadStatus { return m.status }

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockModels{status: ensemble.LoadStatus{MLLoaded: true, DLLoaded: true, Ready: true}}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["ml_model"] != CheckOK || r.Checks["dl_model"] != CheckOK {
		t.Errorf("model checks = %v", r.Checks)
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
	if !r.MLLoaded || !r.DLLoaded {
		t.Errorf("loaded flags = %v/%v", r.MLLoaded, r.DLLoaded)
	}
}

func TestCheck_OneModelDownDegrades(t *testing.T) {
	svc := New(&mockModels{status: ensemble.LoadStatus{MLLoaded: true, Ready: true}}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["dl_model"] != CheckError {
		t.Errorf("expected dl_model %q, got %q", CheckError, r.Checks["dl_model"])
	}
}

func TestCheck_NoModelsUnhealthy(t *testing.T) {
	svc := New(&mockModels{}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_CacheErrorDegrades(t *testing.T) {
	svc := New(&mockModels{status: ensemble.LoadStatus{MLLoaded: true, DLLoaded: true, Ready: true}},
		&mockPinger{err: errors.New("conn refused")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
}

func TestCheck_NilCacheSkipsCheck(t *testing.T) {
	svc := New(&mockModels{status: ensemble.LoadStatus{MLLoaded: true, DLLoaded: true, Ready: true}}, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check present without a cache")
	}
}
