// Package qrdisplay renders the member's check-in QR code and manages the
// screen-brightness boost while the code is on screen.
package qrdisplay

import (
	"sync"

	qrcode "github.com/skip2/go-qrcode"
)

// PlaceholderMessage is shown instead of a code when the member has no
// check-in token assigned yet (registration still pending).
const PlaceholderMessage = "Your check-in code isn't ready yet. Please see the front desk."

// DefaultSize is the rendered PNG edge length in pixels.
const DefaultSize = 256

// View is what the check-in screen presents: either a rendered code or the
// placeholder, never both.
type View struct {
	PNG         []byte
	Placeholder string
}

// Render encodes the member's check-in token as a QR PNG. An empty token
// yields the placeholder view rather than an error or an empty code.
func Render(token string, size int) (View, error) {
	if token == "" {
		return View{Placeholder: PlaceholderMessage}, nil
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(token, qrcode.Medium, size)
	if err != nil {
		return View{}, err
	}
	return View{PNG: png}, nil
}

// ExpandedView renders the enlarged full-screen variant of the same token.
func ExpandedView(token string) (View, error) {
	return Render(token, DefaultSize*2)
}

// Screen is the device brightness surface.
type Screen interface {
	Brightness() (float64, error)
	SetBrightness(level float64) error
}

// maxBrightness is applied while a code is displayed so the scanner can read
// the screen in bright rooms.
const maxBrightness = 1.0

// BrightnessGuard raises the screen to full brightness and restores the
// prior level exactly once, no matter how many exit paths fire (dismiss,
// backgrounding, teardown).
type BrightnessGuard struct {
	screen Screen

	mu       sync.Mutex
	active   bool
	previous float64
}

func NewBrightnessGuard(screen Screen) *BrightnessGuard {
	return &BrightnessGuard{screen: screen}
}

// Raise records the current level and boosts to maximum. Raising an
// already-active guard is a no-op; the original level stays recorded.
func (g *BrightnessGuard) Raise() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active {
		return nil
	}

	previous, err := g.screen.Brightness()
	if err != nil {
		return err
	}
	if err := g.screen.SetBrightness(maxBrightness); err != nil {
		return err
	}

	g.previous = previous
	g.active = true
	return nil
}

// Restore puts the screen back to the level recorded by Raise. Safe to call
// from every exit path; only the first call after a Raise writes to the
// screen.
func (g *BrightnessGuard) Restore() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active {
		return nil
	}
	g.active = false
	return g.screen.SetBrightness(g.previous)
}
