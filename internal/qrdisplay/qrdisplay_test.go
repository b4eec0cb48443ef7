package qrdisplay

import (
	"bytes"
	"errors"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name            string
		token           string
		wantPlaceholder bool
	}{
		{name: "token renders a png", token: "tok-abc123"},
		{name: "empty token yields placeholder", token: "", wantPlaceholder: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := Render(tt.token, 0)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}

			if tt.wantPlaceholder {
				if view.Placeholder != PlaceholderMessage {
					t.Errorf("Placeholder = %q", view.Placeholder)
				}
				if view.PNG != nil {
					t.Error("placeholder view must not carry image data")
				}
				return
			}

			if view.Placeholder != "" {
				t.Errorf("unexpected placeholder %q", view.Placeholder)
			}
			if !bytes.HasPrefix(view.PNG, []byte("\x89PNG")) {
				t.Error("expected PNG image data")
			}
		})
	}
}

func TestExpandedViewMatchesToken(t *testing.T) {
	view, err := ExpandedView("tok-abc123")
	if err != nil {
		t.Fatalf("ExpandedView: %v", err)
	}
	if len(view.PNG) == 0 {
		t.Fatal("expected image data")
	}

	empty, err := ExpandedView("")
	if err != nil {
		t.Fatalf("ExpandedView empty: %v", err)
	}
	if empty.Placeholder != PlaceholderMessage {
		t.Error("empty token should produce the placeholder in the expanded view too")
	}
}

type fakeScreen struct {
	level   float64
	sets    []float64
	readErr error
}

func (s *fakeScreen) Brightness() (float64, error) {
	if s.readErr != nil {
		return 0, s.readErr
	}
	return s.level, nil
}

func (s *fakeScreen) SetBrightness(level float64) error {
	s.level = level
	s.sets = append(s.sets, level)
	return nil
}

func TestBrightnessGuardRaiseAndRestore(t *testing.T) {
	screen := &fakeScreen{level: 0.4}
	guard := NewBrightnessGuard(screen)

	if err := guard.Raise(); err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if screen.level != 1.0 {
		t.Fatalf("brightness = %v after raise", screen.level)
	}

	if err := guard.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if screen.level != 0.4 {
		t.Errorf("brightness = %v after restore, want 0.4", screen.level)
	}
}

// The display has three exit paths (dismiss, backgrounding, teardown) and
// they can all fire for one showing. Only the first restore may write.
func TestBrightnessGuardRestoresOnce(t *testing.T) {
	screen := &fakeScreen{level: 0.4}
	guard := NewBrightnessGuard(screen)

	if err := guard.Raise(); err != nil {
		t.Fatalf("Raise: %v", err)
	}

	guard.Restore() // dismiss
	guard.Restore() // backgrounding
	guard.Restore() // teardown

	if len(screen.sets) != 2 {
		t.Fatalf("screen writes = %d, want 2 (raise + one restore)", len(screen.sets))
	}
	if screen.level != 0.4 {
		t.Errorf("brightness = %v, want 0.4", screen.level)
	}
}

func TestBrightnessGuardDoubleRaiseKeepsOriginalLevel(t *testing.T) {
	screen := &fakeScreen{level: 0.25}
	guard := NewBrightnessGuard(screen)

	guard.Raise()
	// A second raise while boosted must not record 1.0 as the prior level.
	guard.Raise()
	guard.Restore()

	if screen.level != 0.25 {
		t.Errorf("brightness = %v, want original 0.25", screen.level)
	}
}

func TestBrightnessGuardReadFailure(t *testing.T) {
	screen := &fakeScreen{readErr: errors.New("hal unavailable")}
	guard := NewBrightnessGuard(screen)

	if err := guard.Raise(); err == nil {
		t.Fatal("expected error when brightness cannot be read")
	}
	if len(screen.sets) != 0 {
		t.Error("failed raise must not touch the screen")
	}
	// Restore after a failed raise is a no-op.
	if err := guard.Restore(); err != nil {
		t.Errorf("Restore: %v", err)
	}
}
