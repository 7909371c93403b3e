package location

import (
	"context"
	"errors"
	"testing"

	"github.com/nbilal/homepin/internal/model"
)

type fakeProvider struct {
	coord model.Coordinate
	err   error
	calls int
}

func (f *fakeProvider) Locate(ctx context.Context) (model.Coordinate, error) {
	f.calls++
	if f.err != nil {
		return model.Coordinate{}, f.err
	}
	return f.coord, nil
}

func TestGateHappyPath(t *testing.T) {
	p := &fakeProvider{coord: model.Coordinate{Latitude: 25.2, Longitude: 55.27}}
	g := NewGate(p, nil)

	if g.State() != StateIdle {
		t.Fatalf("new gate state %s, want idle", g.State())
	}
	if err := g.RequestPermission(); err != nil {
		t.Fatal(err)
	}
	if g.State() != StatePermissionRequested {
		t.Fatalf("state %s after request, want permission-requested", g.State())
	}
	if err := g.Grant(); err != nil {
		t.Fatal(err)
	}

	coord, err := g.AcquireFix(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if coord != p.coord {
		t.Errorf("fix %+v, want provider coord %+v", coord, p.coord)
	}
	if g.State() != StateFixObtained {
		t.Errorf("state %s after fix, want fix-obtained", g.State())
	}
	if g.Fix() != p.coord {
		t.Errorf("Fix() = %+v, want %+v", g.Fix(), p.coord)
	}
}

func TestGateDeniedNeverCallsProvider(t *testing.T) {
	p := &fakeProvider{coord: model.Coordinate{Latitude: 1, Longitude: 1}}
	g := NewGate(p, nil)

	g.RequestPermission()
	g.Deny()

	_, err := g.AcquireFix(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times after denial, want 0", p.calls)
	}
	if g.State() != StatePermissionDenied {
		t.Errorf("state %s, want permission-denied", g.State())
	}
}

func TestGateTimeout(t *testing.T) {
	p := &fakeProvider{err: context.DeadlineExceeded}
	g := NewGate(p, nil)

	g.RequestPermission()
	g.Grant()

	_, err := g.AcquireFix(context.Background())
	if !errors.Is(err, ErrFixTimeout) {
		t.Fatalf("err = %v, want ErrFixTimeout", err)
	}
	if g.State() != StateFixFailed {
		t.Errorf("state %s after timeout, want fix-failed", g.State())
	}

	// Failed attempts are retryable.
	p.err = nil
	p.coord = model.Coordinate{Latitude: 25.2, Longitude: 55.27}
	if _, err := g.AcquireFix(context.Background()); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestGateInvalidCoordinate(t *testing.T) {
	p := &fakeProvider{coord: model.Coordinate{Latitude: 200, Longitude: 0}}
	g := NewGate(p, nil)

	g.RequestPermission()
	g.Grant()

	_, err := g.AcquireFix(context.Background())
	if err == nil {
		t.Fatal("invalid provider coordinate accepted")
	}
	if g.State() != StateFixFailed {
		t.Errorf("state %s, want fix-failed", g.State())
	}
}

func TestGateFreshCacheSkipsProvider(t *testing.T) {
	cached := model.Coordinate{Latitude: 24.45, Longitude: 54.38}
	cache := NewFixCache(t.TempDir())
	cache.Save(cached)

	p := &fakeProvider{coord: model.Coordinate{Latitude: 1, Longitude: 1}}
	g := NewGate(p, cache)

	g.RequestPermission()
	g.Grant()

	coord, err := g.AcquireFix(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if coord != cached {
		t.Errorf("fix %+v, want cached %+v", coord, cached)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times with a fresh cache, want 0", p.calls)
	}
}

func TestGateDoubleRequestRejected(t *testing.T) {
	g := NewGate(&fakeProvider{}, nil)
	g.RequestPermission()
	if err := g.RequestPermission(); err == nil {
		t.Error("second permission request accepted")
	}
}
