package sampling

import "errors"

var (
	// ErrInvalidConfiguration reports a malformed or out of range sample size, detected before any input is read.
	ErrInvalidConfiguration = errors.New("invalid sampling configuration")

	// ErrSizeExceedsPopulation reports a resolved sample size larger than the number of eligible items.
	ErrSizeExceedsPopulation = errors.New("sample size exceeds population")

	// ErrPopulationExhausted reports a streaming source that ended before the reservoir was filled.
	ErrPopulationExhausted = errors.New("population exhausted during streaming")
)
