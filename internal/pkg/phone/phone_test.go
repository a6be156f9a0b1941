package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat_Progressive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no digits", "abc-()", ""},
		{"one digit", "5", "(5"},
		{"three digits", "555", "(555"},
		{"four digits", "5551", "(555) 1"},
		{"six digits", "555123", "(555) 123"},
		{"seven digits", "5551234", "(555) 123-4"},
		{"full number", "5551234567", "(555) 123-4567"},
		{"overflow truncated", "55512345678888", "(555) 123-4567"},
		{"already formatted", "(555) 123-4567", "(555) 123-4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format("", tt.input))
		})
	}
}

func TestFormat_CountryCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"one alone", "1", "1"},
		{"one plus area", "1555", "1 (555"},
		{"one plus six", "1555123", "1 (555) 123"},
		{"full eleven", "15551234567", "1 (555) 123-4567"},
		{"eleven overflow", "155512345679999", "1 (555) 123-4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format("", tt.input))
		})
	}
}

func TestFormat_StickyCountryCode(t *testing.T) {
	// Once the previous value carried a leading 1, an edit that removes it
	// from the front re-prefixes it.
	assert.Equal(t, "1 (555", Format("1 (555) 1", "555"))
	assert.Equal(t, "1 (555) 123-4567", Format("1 (555) 123-456", "5551234567"))

	// No stickiness without a prior country code.
	assert.Equal(t, "(555) 123-4567", Format("(555) 123-456", "5551234567"))
}

func TestFormat_Idempotent(t *testing.T) {
	for _, v := range []string{"(555) 123-4567", "1 (555) 123-4567", "(555) 123", "1"} {
		assert.Equal(t, v, Format(v, v), "formatting a stable value must not change it")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"bare ten digits", "5551234567", "5551234567", false},
		{"formatted", "(555) 123-4567", "5551234567", false},
		{"eleven with country code", "15551234567", "5551234567", false},
		{"formatted with country code", "1 (555) 123-4567", "5551234567", false},
		{"too short", "555123456", "", true},
		{"too long", "555123456789", "", true},
		{"eleven without leading one", "25551234567", "", true},
		{"empty", "", "", true},
		{"garbage", "call me maybe", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_AfterFormat_RoundTrip(t *testing.T) {
	// A fully typed number survives the format -> normalize round trip.
	for _, raw := range []string{"5551234567", "15551234567", "(555) 123-4567"} {
		key, err := Normalize(Format("", raw))
		require.NoError(t, err)
		assert.Equal(t, "5551234567", key)
	}
}

func TestToE164(t *testing.T) {
	assert.Equal(t, "+15551234567", ToE164("5551234567"))
	assert.Equal(t, "+15551234567", ToE164("(555) 123-4567"))
	assert.Equal(t, "+15551234567", ToE164("15551234567"))
	assert.Equal(t, "+445551234567", ToE164("445551234567"))
}
