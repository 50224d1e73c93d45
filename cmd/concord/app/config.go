// Package app holds configuration plumbing shared by concord commands.
package app

import (
	"github.com/spf13/viper"

	"github.com/concordhq/concord/pkg/cluster"
	"github.com/concordhq/concord/pkg/errors"
	"github.com/concordhq/concord/pkg/score"
)

// Config keys recognized in .concord.yaml.
const (
	keyScoring   = "scoring"
	keyTolerance = "tolerance"
)

// ScoringConfig returns the scoring configuration from the loaded viper
// state, falling back to defaults when no scoring section is present.
func ScoringConfig() (score.Config, error) {
	cfg := score.DefaultConfig()

	sub := viper.Sub(keyScoring)
	if sub == nil {
		return cfg, nil
	}

	if err := sub.Unmarshal(&cfg); err != nil {
		return score.Config{}, &errors.ConfigError{
			Component: "scoring",
			Message:   "failed to decode scoring configuration",
			Err:       err,
		}
	}
	if err := cfg.Validate(); err != nil {
		return score.Config{}, err
	}

	return cfg, nil
}

// Tolerance returns the clustering tolerance, preferring the flag value
// when set, then the config file, then the default.
func Tolerance(flagValue float64, flagChanged bool) float64 {
	if flagChanged {
		return flagValue
	}
	if viper.IsSet(keyTolerance) {
		return viper.GetFloat64(keyTolerance)
	}
	return cluster.DefaultTolerance
}
