package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nbilal/homepin/internal/model"
)

// State is the gate's position in the permission → fix flow.
type State int

const (
	StateIdle State = iota
	StatePermissionRequested
	StatePermissionGranted
	StatePermissionDenied
	StateFixRequested
	StateFixObtained
	StateFixFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePermissionRequested:
		return "permission-requested"
	case StatePermissionGranted:
		return "permission-granted"
	case StatePermissionDenied:
		return "permission-denied"
	case StateFixRequested:
		return "fix-requested"
	case StateFixObtained:
		return "fix-obtained"
	case StateFixFailed:
		return "fix-failed"
	}
	return "unknown"
}

// ErrPermissionDenied is terminal for the discovery flow; there is no
// automatic retry.
var ErrPermissionDenied = errors.New("location permission denied")

// ErrFixTimeout marks a fix attempt that outlived its deadline. Retryable.
var ErrFixTimeout = errors.New("location fix timed out")

// Provider resolves one coarse coordinate fix.
type Provider interface {
	Locate(ctx context.Context) (model.Coordinate, error)
}

const (
	defaultFixTimeout = 5 * time.Second
	defaultFixMaxAge  = 10 * time.Second
)

// Gate sequences permission and one-shot fix acquisition. It hands the fix
// downstream exactly once and never tracks continuously. The mutex covers
// reads from the UI loop while a fix command runs in its own goroutine.
type Gate struct {
	provider Provider
	cache    *FixCache
	timeout  time.Duration
	maxAge   time.Duration

	mu    sync.Mutex
	state State
	fix   model.Coordinate
}

func NewGate(provider Provider, cache *FixCache) *Gate {
	return &Gate{
		provider: provider,
		cache:    cache,
		timeout:  defaultFixTimeout,
		maxAge:   defaultFixMaxAge,
	}
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Fix returns the obtained coordinate; valid only in StateFixObtained.
func (g *Gate) Fix() model.Coordinate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fix
}

// RequestPermission opens the permission dialog phase.
func (g *Gate) RequestPermission() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateIdle {
		return fmt.Errorf("permission already requested (state %s)", g.state)
	}
	g.state = StatePermissionRequested
	return nil
}

// Grant records the user's consent.
func (g *Gate) Grant() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePermissionRequested {
		return fmt.Errorf("no pending permission request (state %s)", g.state)
	}
	g.state = StatePermissionGranted
	return nil
}

// Deny records refusal. The gate stays denied; callers surface the
// explanation and stop the pipeline.
func (g *Gate) Deny() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StatePermissionRequested {
		return fmt.Errorf("no pending permission request (state %s)", g.state)
	}
	g.state = StatePermissionDenied
	return nil
}

func (g *Gate) setState(s State) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// AcquireFix resolves one coordinate, preferring a cached fix younger than
// the max age. Valid after a grant, after a failed attempt (retry), or to
// refresh a previously obtained fix.
func (g *Gate) AcquireFix(ctx context.Context) (model.Coordinate, error) {
	g.mu.Lock()
	switch g.state {
	case StatePermissionDenied:
		g.mu.Unlock()
		return model.Coordinate{}, ErrPermissionDenied
	case StatePermissionGranted, StateFixFailed, StateFixObtained:
		g.state = StateFixRequested
		g.mu.Unlock()
	default:
		s := g.state
		g.mu.Unlock()
		return model.Coordinate{}, fmt.Errorf("fix not acquirable (state %s)", s)
	}

	if g.cache != nil {
		if c, at, ok := g.cache.Load(); ok && time.Since(at) <= g.maxAge {
			g.setFix(c)
			return c, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	c, err := g.provider.Locate(ctx)
	if err != nil {
		g.setState(StateFixFailed)
		if errors.Is(err, context.DeadlineExceeded) {
			return model.Coordinate{}, ErrFixTimeout
		}
		return model.Coordinate{}, fmt.Errorf("location unavailable: %w", err)
	}
	if !c.Valid() {
		g.setState(StateFixFailed)
		return model.Coordinate{}, fmt.Errorf("location unavailable: provider returned invalid coordinate %.4f,%.4f", c.Latitude, c.Longitude)
	}

	g.setFix(c)
	if g.cache != nil {
		g.cache.Save(c)
	}
	return c, nil
}

func (g *Gate) setFix(c model.Coordinate) {
	g.mu.Lock()
	g.state = StateFixObtained
	g.fix = c
	g.mu.Unlock()
}
