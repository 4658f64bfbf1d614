package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()
	require.NoError(t, settings.Validate())

	w := settings.Weights
	// The largest coefficients are 2 for colours and 4 for floating
	require.Greater(t, w.AvoidDuplicateGame,
		2*w.BalanceColors+w.MinimizeScoreDifference+4*w.BalanceFloating+w.MaximizeSeeding)
	require.Greater(t, w.MinimizeScoreDifference, 2*w.BalanceColors+4*w.BalanceFloating+w.MaximizeSeeding)
	require.Greater(t, w.BalanceFloating, 2*w.BalanceColors+w.MaximizeSeeding)
	require.Greater(t, w.MaximizeSeeding, 2*w.BalanceColors)
	require.Positive(t, w.BalanceColors)
}

func TestLoadSettings(t *testing.T) {
	yaml := `
number_of_rounds: 7
pairing_mode: fold
draw_up_mode: top
draw_down_mode: Bottom
mcmahon:
  floor: -15
  bar: 1
  dense: true
handicap:
  max: 0
weights:
  maximize_seeding: 1000
`
	settings, err := LoadSettings(strings.NewReader(yaml))
	require.NoError(t, err)

	require.Equal(t, 7, settings.NumberOfRounds)
	require.Equal(t, PairingFold, settings.PairingMode)
	require.Equal(t, FloatingTop, settings.DrawUpMode)
	require.Equal(t, FloatingBottom, settings.DrawDownMode)
	require.Equal(t, McMahonSettings{Floor: -15, Bar: 1, Dense: true}, settings.McMahon)
	require.Equal(t, 0, settings.Handicap.Max)
	require.Equal(t, -1, settings.Handicap.Correction, "unset keys keep their default")
	require.Equal(t, 1000., settings.Weights.MaximizeSeeding)
	require.Equal(t, DefaultSettings().Weights.AvoidDuplicateGame, settings.Weights.AvoidDuplicateGame)
}

func TestLoadEmptySettings(t *testing.T) {
	settings, err := LoadSettings(strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), settings)
}

func TestLoadInvalidSettings(t *testing.T) {
	invalid := map[string]string{
		"unknown key":      "rounds: 3",
		"unknown mode":     "pairing_mode: zigzag",
		"floor above bar":  "mcmahon:\n  floor: 3\n  bar: 2",
		"no rounds":        "number_of_rounds: 0",
		"negative weight":  "weights:\n  balance_colors: -1",
		"bye points":       "bye_points_x2: 3",
		"negative max":     "handicap:\n  max: -2",
		"malformed yaml":   "number_of_rounds: [",
		"wrong value type": "number_of_rounds: many",
	}

	for name, yaml := range invalid {
		_, err := LoadSettings(strings.NewReader(yaml))
		require.ErrorIs(t, err, ErrInvalidSettings, name)
	}
}
