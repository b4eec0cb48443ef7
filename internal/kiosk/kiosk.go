// Package kiosk implements the unauthenticated donation kiosk: the typed
// settings stored per organization and the donation flow state machine a
// kiosk device walks through.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
)

type State string

const (
	StateLoading    State = "loading"
	StateNotFound   State = "not_found"
	StateDisabled   State = "disabled"
	StateAmount     State = "amount"
	StatePayment    State = "payment"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
)

// SuccessDwell is how long the thank-you screen stays up before the flow
// resets for the next donor.
const SuccessDwell = 8 * time.Second

// ErrOrganizationNotFound is what a Loader reports for an unknown org code.
var ErrOrganizationNotFound = errors.New("organization not found")

// Organization is the public subset a kiosk device needs. An inactive
// organization is reported by the Loader as not found.
type Organization struct {
	ID       string
	Name     string
	LogoURL  string
	Settings Settings
}

// Loader resolves the org code a kiosk is configured with.
type Loader interface {
	KioskOrganization(ctx context.Context, orgCode string) (*Organization, error)
}

// PaymentGateway charges a donation. Amount is in cents.
type PaymentGateway interface {
	Charge(ctx context.Context, orgID string, amountCents int64, method PaymentMethod) error
}

// SimulatedGateway approves every charge after a fixed delay. It stands in
// until a real processor is integrated.
type SimulatedGateway struct {
	Delay time.Duration
}

var _ PaymentGateway = (*SimulatedGateway)(nil)

func (g *SimulatedGateway) Charge(ctx context.Context, orgID string, amountCents int64, method PaymentMethod) error {
	delay := g.Delay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flow is the donation state machine for a single kiosk device. It is safe
// for concurrent use; a kiosk has one screen, but timers and taps race.
type Flow struct {
	loader  Loader
	gateway PaymentGateway

	// after schedules the success-dwell reset; injectable for tests.
	after func(d time.Duration, fn func()) *time.Timer

	mu           sync.Mutex
	state        State
	org          *Organization
	presetCents  int64
	customCents  int64
	customActive bool
	method       PaymentMethod
	resetTimer   *time.Timer
	generation   int
}

func NewFlow(loader Loader, gateway PaymentGateway) *Flow {
	return &Flow{
		loader:  loader,
		gateway: gateway,
		after:   time.AfterFunc,
		state:   StateLoading,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Organization() *Organization {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.org
}

// Begin resolves the configured org code and lands on amount entry, or on a
// terminal full-screen state the kiosk shows until reconfigured. A disabled
// kiosk never reaches amount entry.
func (f *Flow) Begin(ctx context.Context, orgCode string) State {
	f.mu.Lock()
	f.state = StateLoading
	f.org = nil
	f.clearSelectionLocked()
	f.mu.Unlock()

	org, err := f.loader.KioskOrganization(ctx, orgCode)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil || org == nil {
		f.state = StateNotFound
		return f.state
	}
	if !org.Settings.Enabled {
		f.org = org
		f.state = StateDisabled
		return f.state
	}

	f.org = org
	f.state = StateAmount
	return f.state
}

// SelectPreset picks one of the configured preset amounts and clears any
// custom entry. Selecting an amount not in the configured list is ignored.
func (f *Flow) SelectPreset(amountCents int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAmount || f.org == nil {
		return
	}
	if !lo.Contains(f.org.Settings.PresetAmounts, amountCents) {
		return
	}

	f.presetCents = amountCents
	f.customCents = 0
	f.customActive = false
}

// EnterCustom sets a free-form dollar amount, clearing any preset selection.
// More than two decimal digits is rejected.
func (f *Flow) EnterCustom(amount string) error {
	cents, err := parseAmount(amount)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAmount || f.org == nil {
		return errors.New("amount entry is not active")
	}
	if !f.org.Settings.CustomAmountEnabled {
		return errors.New("custom amounts are not enabled")
	}

	f.customCents = cents
	f.customActive = true
	f.presetCents = 0
	return nil
}

// Amount returns the currently selected donation in cents; zero when nothing
// valid is selected.
func (f *Flow) Amount() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.amountLocked()
}

func (f *Flow) amountLocked() int64 {
	if f.customActive {
		return f.customCents
	}
	return f.presetCents
}

func (f *Flow) CanContinue() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == StateAmount && f.amountLocked() > 0
}

// Continue advances from amount entry to payment-method selection.
func (f *Flow) Continue() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateAmount {
		return fmt.Errorf("cannot continue from %s", f.state)
	}
	if f.amountLocked() <= 0 {
		return errors.New("select an amount first")
	}

	f.state = StatePayment
	return nil
}

// SelectMethod picks a payment method and runs the charge. On success the
// thank-you screen shows for SuccessDwell, then the flow resets to amount
// entry for the next donor. A declined charge returns to method selection.
func (f *Flow) SelectMethod(ctx context.Context, method PaymentMethod) error {
	f.mu.Lock()
	if f.state != StatePayment || f.org == nil {
		f.mu.Unlock()
		return errors.New("payment selection is not active")
	}
	if !lo.Contains(f.org.Settings.PaymentMethods, method) {
		f.mu.Unlock()
		return fmt.Errorf("payment method %s is not enabled", method)
	}

	f.method = method
	f.state = StateProcessing
	orgID := f.org.ID
	amount := f.amountLocked()
	f.mu.Unlock()

	err := f.gateway.Charge(ctx, orgID, amount, method)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateProcessing {
		// Reset raced the charge; drop the outcome.
		return nil
	}
	if err != nil {
		f.state = StatePayment
		return err
	}

	f.state = StateSuccess
	f.generation++
	generation := f.generation
	f.resetTimer = f.after(SuccessDwell, func() { f.resetAfterSuccess(generation) })
	return nil
}

func (f *Flow) resetAfterSuccess(generation int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.generation != generation || f.state != StateSuccess {
		return
	}
	f.clearSelectionLocked()
	f.state = StateAmount
}

// Reset returns to amount entry immediately, cancelling any pending
// success-dwell timer. A no-op in the terminal not-found/disabled states.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateLoading || f.state == StateNotFound || f.state == StateDisabled {
		return
	}
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
	f.generation++
	f.clearSelectionLocked()
	f.state = StateAmount
}

func (f *Flow) clearSelectionLocked() {
	f.presetCents = 0
	f.customCents = 0
	f.customActive = false
	f.method = ""
}

// parseAmount converts a dollar string like "25" or "12.50" to cents. At
// most two decimal digits are allowed; "12.345" is invalid, not rounded.
func parseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(strings.TrimPrefix(amount, "$"))
	if amount == "" {
		return 0, errors.New("amount is required")
	}

	whole, frac, hasFrac := strings.Cut(amount, ".")
	if hasFrac && len(frac) > 2 {
		return 0, errors.New("amount cannot have more than two decimal places")
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || dollars < 0 {
		return 0, errors.New("invalid amount")
	}

	cents := dollars * 100
	if hasFrac {
		if frac == "" {
			return 0, errors.New("invalid amount")
		}
		fracValue, err := strconv.ParseInt(frac, 10, 64)
		if err != nil || fracValue < 0 {
			return 0, errors.New("invalid amount")
		}
		if len(frac) == 1 {
			fracValue *= 10
		}
		cents += fracValue
	}
	return cents, nil
}
