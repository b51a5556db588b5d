package sheet

import "math/rand/v2"

// RandomSource is the randomness Fallback draws from. *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
	IntN(n int) int
}

// NewRandomSource returns a deterministic source for seed.
func NewRandomSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Fallback guesses a sheet for an image where no bubble was found.
//
// Each question is independently attempted with probability attemptProb and
// then given a uniformly chosen option among the first options letters;
// otherwise it stays None. The same source state always yields the same sheet.
//
// Callers must tag the result with ProvenanceFallback.
func Fallback(total int, attemptProb float64, options int, rng RandomSource) AnswerSheet {
	if options < 1 || options > MaxOptions {
		options = MaxOptions
	}
	sheet := Build(nil, total)
	for i := range sheet {
		if rng.Float64() < attemptProb {
			sheet[i] = OptionFromIndex(rng.IntN(options))
		}
	}
	return sheet
}
