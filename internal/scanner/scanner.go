// Package scanner drives the staff-side QR scan session. A camera feed can
// yield many duplicate decodes per second while the symbol sits in frame, so
// the session enforces at-most-one lookup dispatch per scan session and
// stops the camera before the dispatch is issued.
package scanner

import (
	"context"
	"errors"
	"sync"
)

type State int

const (
	StateIdle State = iota
	StateStarting
	StateScanning
	StateStopping
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateScanning:
		return "scanning"
	case StateStopping:
		return "stopping"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	// ErrSessionActive is returned by Start when the session is already
	// scanning.
	ErrSessionActive = errors.New("scan session already active")
	// ErrCameraUnavailable wraps camera start failures (permission denied,
	// hardware busy).
	ErrCameraUnavailable = errors.New("camera unavailable")
)

// Camera is the device abstraction. Start begins delivering decoded frames
// to the callback until Stop returns; Stop must complete full teardown
// before returning.
type Camera interface {
	Start(ctx context.Context, onDecode func(token string)) error
	Stop(ctx context.Context) error
}

// Session serializes camera start/stop and debounces decodes. All operations
// are safe for concurrent use; opMu is the single in-flight guard — a Start
// issued while a Stop is in progress waits for the teardown to complete.
type Session struct {
	camera Camera

	opMu sync.Mutex // serializes Start/Stop end to end

	mu         sync.Mutex // guards the fields below
	state      State
	dispatched bool
	dispatch   func(token string)
}

func NewSession(camera Camera) *Session {
	return &Session{camera: camera}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start opens a camera session. Scanning resumes only by an explicit
// restart: calling Start while a session is active returns ErrSessionActive.
func (s *Session) Start(ctx context.Context, dispatch func(token string)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	if s.state != StateIdle && s.state != StateError {
		s.mu.Unlock()
		return ErrSessionActive
	}
	s.state = StateStarting
	s.dispatched = false
	s.dispatch = dispatch
	s.mu.Unlock()

	if err := s.camera.Start(ctx, func(token string) { s.handleDecode(ctx, token) }); err != nil {
		s.mu.Lock()
		s.state = StateError
		s.mu.Unlock()
		return errors.Join(ErrCameraUnavailable, err)
	}

	s.mu.Lock()
	s.state = StateScanning
	s.mu.Unlock()
	return nil
}

// Stop tears the camera session down, awaiting full teardown. Stopping an
// idle session is a no-op.
func (s *Session) Stop(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.stopLocked(ctx)
}

func (s *Session) stopLocked(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateScanning && s.state != StateStarting {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopping
	s.mu.Unlock()

	err := s.camera.Stop(ctx)

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	return err
}

// Close releases the camera on unmount/navigation-away.
func (s *Session) Close(ctx context.Context) error {
	return s.Stop(ctx)
}

// handleDecode runs for every decoded frame. The first decode in a session
// wins: the camera is stopped first, then the lookup dispatch fires exactly
// once. Later decodes, including ones racing the teardown, are dropped.
func (s *Session) handleDecode(ctx context.Context, token string) {
	s.mu.Lock()
	if s.dispatched || s.state != StateScanning {
		s.mu.Unlock()
		return
	}
	s.dispatched = true
	dispatch := s.dispatch
	s.mu.Unlock()

	s.opMu.Lock()
	_ = s.stopLocked(ctx)
	s.opMu.Unlock()

	if dispatch != nil {
		dispatch(token)
	}
}
