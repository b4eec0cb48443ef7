package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeCamera records start/stop calls and exposes the decode callback so
// tests can simulate frames.
type fakeCamera struct {
	mu       sync.Mutex
	onDecode func(token string)
	startErr error
	started  int
	stopped  int
}

func (c *fakeCamera) Start(ctx context.Context, onDecode func(token string)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startErr != nil {
		return c.startErr
	}
	c.started++
	c.onDecode = onDecode
	return nil
}

func (c *fakeCamera) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped++
	return nil
}

func (c *fakeCamera) decode(token string) {
	c.mu.Lock()
	fn := c.onDecode
	c.mu.Unlock()
	if fn != nil {
		fn(token)
	}
}

func (c *fakeCamera) stopCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func TestSessionLifecycle(t *testing.T) {
	cam := &fakeCamera{}
	session := NewSession(cam)
	ctx := context.Background()

	if got := session.State(); got != StateIdle {
		t.Fatalf("initial state = %v", got)
	}

	if err := session.Start(ctx, func(string) {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := session.State(); got != StateScanning {
		t.Fatalf("state after start = %v", got)
	}

	if err := session.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if got := session.State(); got != StateIdle {
		t.Fatalf("state after stop = %v", got)
	}

	// Stopping again is a no-op.
	if err := session.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	if cam.stopCount() != 1 {
		t.Errorf("camera stopped %d times, want 1", cam.stopCount())
	}
}

func TestStartWhileActiveReturnsError(t *testing.T) {
	cam := &fakeCamera{}
	session := NewSession(cam)
	ctx := context.Background()

	if err := session.Start(ctx, func(string) {}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := session.Start(ctx, func(string) {}); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("second Start = %v, want ErrSessionActive", err)
	}
	if cam.started != 1 {
		t.Errorf("camera started %d times, want 1", cam.started)
	}
}

func TestCameraStartFailure(t *testing.T) {
	cam := &fakeCamera{startErr: errors.New("permission denied")}
	session := NewSession(cam)

	err := session.Start(context.Background(), func(string) {})
	if !errors.Is(err, ErrCameraUnavailable) {
		t.Fatalf("Start = %v, want ErrCameraUnavailable", err)
	}
	if got := session.State(); got != StateError {
		t.Errorf("state = %v, want error", got)
	}

	// The error state is recoverable by a fresh start.
	cam.startErr = nil
	if err := session.Start(context.Background(), func(string) {}); err != nil {
		t.Fatalf("restart after error: %v", err)
	}
}

func TestDuplicateDecodesDispatchOnce(t *testing.T) {
	cam := &fakeCamera{}
	session := NewSession(cam)

	var dispatches []string
	err := session.Start(context.Background(), func(token string) {
		dispatches = append(dispatches, token)
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// A QR code held in frame decodes many times per second.
	for i := 0; i < 20; i++ {
		cam.decode("tok-abc123")
	}

	if len(dispatches) != 1 {
		t.Fatalf("dispatched %d times, want 1", len(dispatches))
	}
	if dispatches[0] != "tok-abc123" {
		t.Errorf("dispatched token = %q", dispatches[0])
	}
}

func TestCameraStoppedBeforeDispatch(t *testing.T) {
	cam := &fakeCamera{}
	session := NewSession(cam)

	var stopsAtDispatch int
	err := session.Start(context.Background(), func(string) {
		stopsAtDispatch = cam.stopCount()
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	cam.decode("tok-abc123")

	if stopsAtDispatch != 1 {
		t.Errorf("camera stop count at dispatch = %d, want 1 (stop must precede dispatch)", stopsAtDispatch)
	}
	if got := session.State(); got != StateIdle {
		t.Errorf("state after dispatch = %v, want idle", got)
	}
}

func TestNoRedispatchWithoutRestart(t *testing.T) {
	cam := &fakeCamera{}
	session := NewSession(cam)
	ctx := context.Background()

	var dispatches int
	dispatch := func(string) { dispatches++ }

	if err := session.Start(ctx, dispatch); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cam.decode("tok-1")
	// Frames still arriving after the session ended are dropped.
	cam.decode("tok-2")
	cam.decode("tok-3")

	if dispatches != 1 {
		t.Fatalf("dispatches = %d, want 1", dispatches)
	}

	// An explicit restart opens a new session with a fresh dispatch budget.
	if err := session.Start(ctx, dispatch); err != nil {
		t.Fatalf("restart: %v", err)
	}
	cam.decode("tok-4")

	if dispatches != 2 {
		t.Errorf("dispatches after restart = %d, want 2", dispatches)
	}
}

func TestConcurrentDecodesDispatchOnce(t *testing.T) {
	cam := &fakeCamera{}
	session := NewSession(cam)

	var mu sync.Mutex
	dispatches := 0
	err := session.Start(context.Background(), func(string) {
		mu.Lock()
		dispatches++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cam.decode("tok-race")
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if dispatches != 1 {
		t.Errorf("dispatches = %d, want exactly 1", dispatches)
	}
}
