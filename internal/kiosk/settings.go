package kiosk

import (
	"encoding/json"

	"github.com/samber/lo"
)

type PaymentMethod string

const (
	MethodApplePay  PaymentMethod = "apple_pay"
	MethodGooglePay PaymentMethod = "google_pay"
	MethodCard      PaymentMethod = "card"
	MethodVenmo     PaymentMethod = "venmo"
)

var allMethods = []PaymentMethod{MethodApplePay, MethodGooglePay, MethodCard, MethodVenmo}

// Settings is the typed kiosk configuration stored under the organization's
// settings blob. Stored data may be partial; ParseSettings merges it over
// defaults.
type Settings struct {
	Enabled             bool            `json:"enabled"`
	PresetAmounts       []int64         `json:"preset_amounts"` // cents
	CustomAmountEnabled bool            `json:"custom_amount_enabled"`
	PaymentMethods      []PaymentMethod `json:"payment_methods"`
	ThankYouMessage     string          `json:"thank_you_message"`
	ShowLogo            bool            `json:"show_logo"`
}

func DefaultSettings() Settings {
	return Settings{
		Enabled:             false,
		PresetAmounts:       []int64{1100, 2500, 5100, 10100},
		CustomAmountEnabled: true,
		PaymentMethods:      []PaymentMethod{MethodCard},
		ThankYouMessage:     "Thank you for your donation!",
		ShowLogo:            true,
	}
}

// orgSettings mirrors the organization settings blob; only the kiosk subfield
// is modeled.
type orgSettings struct {
	Kiosk *partialSettings `json:"kiosk"`
}

type partialSettings struct {
	Enabled             *bool            `json:"enabled"`
	PresetAmounts       *[]int64         `json:"preset_amounts"`
	CustomAmountEnabled *bool            `json:"custom_amount_enabled"`
	PaymentMethods      *[]PaymentMethod `json:"payment_methods"`
	ThankYouMessage     *string          `json:"thank_you_message"`
	ShowLogo            *bool            `json:"show_logo"`
}

// ParseSettings reads the kiosk section of an organization settings blob,
// merging whatever partial data is stored over defaults. Unknown payment
// methods and non-positive preset amounts are dropped. A nil or malformed
// blob yields the defaults.
func ParseSettings(raw []byte) Settings {
	settings := DefaultSettings()
	if len(raw) == 0 {
		return settings
	}

	var stored orgSettings
	if err := json.Unmarshal(raw, &stored); err != nil || stored.Kiosk == nil {
		return settings
	}

	k := stored.Kiosk
	if k.Enabled != nil {
		settings.Enabled = *k.Enabled
	}
	if k.PresetAmounts != nil {
		settings.PresetAmounts = lo.Filter(*k.PresetAmounts, func(amount int64, _ int) bool {
			return amount > 0
		})
	}
	if k.CustomAmountEnabled != nil {
		settings.CustomAmountEnabled = *k.CustomAmountEnabled
	}
	if k.PaymentMethods != nil {
		settings.PaymentMethods = lo.Filter(*k.PaymentMethods, func(m PaymentMethod, _ int) bool {
			return lo.Contains(allMethods, m)
		})
	}
	if k.ThankYouMessage != nil && *k.ThankYouMessage != "" {
		settings.ThankYouMessage = *k.ThankYouMessage
	}
	if k.ShowLogo != nil {
		settings.ShowLogo = *k.ShowLogo
	}

	return settings
}

// MergeSettings writes the kiosk section back into an organization settings
// blob, preserving unrelated top-level keys.
func MergeSettings(raw []byte, settings Settings) ([]byte, error) {
	blob := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &blob); err != nil {
			blob = map[string]json.RawMessage{}
		}
	}

	kioskJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}
	blob["kiosk"] = kioskJSON

	return json.Marshal(blob)
}
