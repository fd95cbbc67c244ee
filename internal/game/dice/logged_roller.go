package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged roll sampling.
// Every sample is logged at debug level with the roll percent and damage.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that samples with src and logs each sample to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Sample picks one roll from rolls and logs the result at debug level.
//
// Postcondition: result logged; returns RollResult or ErrNoRolls.
func (r *Roller) Sample(rolls []int) (RollResult, error) {
	result, err := Sample(rolls, r.src)
	if err != nil {
		return RollResult{}, err
	}
	r.logger.Debug("damage roll",
		zap.Int("percent", result.Percent),
		zap.Int("damage", result.Damage),
		zap.Ints("range", rolls),
	)
	return result, nil
}
