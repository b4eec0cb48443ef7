package kiosk

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want func(Settings) Settings
	}{
		{
			name: "nil blob yields defaults",
			raw:  "",
			want: func(d Settings) Settings { return d },
		},
		{
			name: "malformed blob yields defaults",
			raw:  "{not json",
			want: func(d Settings) Settings { return d },
		},
		{
			name: "blob without kiosk section yields defaults",
			raw:  `{"theme": "dark"}`,
			want: func(d Settings) Settings { return d },
		},
		{
			name: "partial kiosk section merges over defaults",
			raw:  `{"kiosk": {"enabled": true, "preset_amounts": [500, 1000]}}`,
			want: func(d Settings) Settings {
				d.Enabled = true
				d.PresetAmounts = []int64{500, 1000}
				return d
			},
		},
		{
			name: "non-positive amounts dropped",
			raw:  `{"kiosk": {"preset_amounts": [500, 0, -100, 1000]}}`,
			want: func(d Settings) Settings {
				d.PresetAmounts = []int64{500, 1000}
				return d
			},
		},
		{
			name: "unknown payment methods dropped",
			raw:  `{"kiosk": {"payment_methods": ["card", "bitcoin", "apple_pay"]}}`,
			want: func(d Settings) Settings {
				d.PaymentMethods = []PaymentMethod{MethodCard, MethodApplePay}
				return d
			},
		},
		{
			name: "empty thank-you message keeps default",
			raw:  `{"kiosk": {"thank_you_message": ""}}`,
			want: func(d Settings) Settings { return d },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSettings([]byte(tt.raw))
			want := tt.want(DefaultSettings())
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ParseSettings = %+v, want %+v", got, want)
			}
		})
	}
}

func TestMergeSettingsPreservesUnrelatedKeys(t *testing.T) {
	raw := []byte(`{"theme": "dark", "kiosk": {"enabled": false}}`)

	settings := DefaultSettings()
	settings.Enabled = true

	merged, err := MergeSettings(raw, settings)
	if err != nil {
		t.Fatalf("MergeSettings: %v", err)
	}

	var blob map[string]json.RawMessage
	if err := json.Unmarshal(merged, &blob); err != nil {
		t.Fatalf("merged blob is not valid JSON: %v", err)
	}
	if string(blob["theme"]) != `"dark"` {
		t.Errorf("unrelated key lost: %s", blob["theme"])
	}

	reparsed := ParseSettings(merged)
	if !reparsed.Enabled {
		t.Error("kiosk section not updated")
	}
}
