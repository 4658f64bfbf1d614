package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSettings = errors.New("invalid settings")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// McMahonSettings control the start scores that are
// derived from the ranks.
//
// Ranks below the Floor all start on the floor and
// ranks above the Bar all start on the bar. With Dense
// the start score is the position among the distinct
// clipped ranks instead of the rank distance to the floor.
type McMahonSettings struct {
	Floor int  `yaml:"floor" json:"floor" validate:"ltefield=Bar"`
	Bar   int  `yaml:"bar" json:"bar"`
	Dense bool `yaml:"dense" json:"dense"`
}

// HandicapSettings control the handicap of games
// between participants of different rank.
type HandicapSettings struct {
	// The highest handicap that is given
	Max int `yaml:"max" json:"max" validate:"gte=0"`
	// Ranks below the bar are treated as the bar
	Bar int `yaml:"bar" json:"bar"`
	// Added to the rank difference
	Correction int `yaml:"correction" json:"correction"`
}

// Weights of the pairing criteria.
//
// The priorities come only from the magnitudes. By default avoiding
// rematches dominates everything else. Colour balance is weighted
// below the main criteria so it only decides between pairings that
// are otherwise equal.
type Weights struct {
	AvoidDuplicateGame      float64 `yaml:"avoid_duplicate_game" json:"avoidDuplicateGame" validate:"gte=0"`
	BalanceColors           float64 `yaml:"balance_colors" json:"balanceColors" validate:"gte=0"`
	MinimizeScoreDifference float64 `yaml:"minimize_score_difference" json:"minimizeScoreDifference" validate:"gte=0"`
	BalanceFloating         float64 `yaml:"balance_floating" json:"balanceFloating" validate:"gte=0"`
	MaximizeSeeding         float64 `yaml:"maximize_seeding" json:"maximizeSeeding" validate:"gte=0"`
}

type Settings struct {
	NumberOfRounds int `yaml:"number_of_rounds" json:"numberOfRounds" validate:"gte=1"`

	McMahon  McMahonSettings  `yaml:"mcmahon" json:"mcmahon"`
	Handicap HandicapSettings `yaml:"handicap" json:"handicap"`

	PairingMode  PairingMode  `yaml:"pairing_mode" json:"pairingMode"`
	DrawUpMode   FloatingMode `yaml:"draw_up_mode" json:"drawUpMode"`
	DrawDownMode FloatingMode `yaml:"draw_down_mode" json:"drawDownMode"`

	// Score (doubled) for a round with a bye
	ByePointsX2 int `yaml:"bye_points_x2" json:"byePointsX2" validate:"gte=0,lte=2"`
	// Score (doubled) for a round of absence
	AbsentPointsX2 int `yaml:"absent_points_x2" json:"absentPointsX2" validate:"gte=0,lte=2"`

	Weights Weights `yaml:"weights" json:"weights"`
}

func DefaultSettings() Settings {
	return Settings{
		NumberOfRounds: 5,
		McMahon: McMahonSettings{
			Floor: -20,
			Bar:   2,
		},
		Handicap: HandicapSettings{
			Max:        9,
			Bar:        -30,
			Correction: -1,
		},
		PairingMode:    PairingCross,
		DrawUpMode:     FloatingMiddle,
		DrawDownMode:   FloatingMiddle,
		ByePointsX2:    2,
		AbsentPointsX2: 0,
		Weights: Weights{
			AvoidDuplicateGame:      5e14,
			BalanceColors:           1e6,
			MinimizeScoreDifference: 1e11,
			BalanceFloating:         1e8,
			MaximizeSeeding:         5e6,
		},
	}
}

// Validate checks the strategy modes and the numeric bounds.
func (s Settings) Validate() error {
	if !s.PairingMode.valid() {
		return fmt.Errorf("%w: %w %d", ErrInvalidSettings, ErrUnknownPairingMode, s.PairingMode)
	}
	if !s.DrawUpMode.valid() {
		return fmt.Errorf("%w: draw up: %w %d", ErrInvalidSettings, ErrUnknownFloatingMode, s.DrawUpMode)
	}
	if !s.DrawDownMode.valid() {
		return fmt.Errorf("%w: draw down: %w %d", ErrInvalidSettings, ErrUnknownFloatingMode, s.DrawDownMode)
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return nil
}

// LoadSettings reads YAML settings. Keys that are not present
// keep their DefaultSettings value, unknown keys are an error.
func LoadSettings(r io.Reader) (Settings, error) {
	settings := DefaultSettings()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	err := decoder.Decode(&settings)
	if err != nil && !errors.Is(err, io.EOF) {
		return settings, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return settings, settings.Validate()
}
