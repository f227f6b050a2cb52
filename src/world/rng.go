package world

import "math/rand"

//Source is the single pseudo random generator of a Field.
//Every stochastic decision of the engine draws from it in a fixed order,
//so two fields created with the same seed replay the same run.
//
//Not thread-safe: the owning Field serializes all draws.
type Source struct {
	seed int64
	rnd  *rand.Rand
}

//NewSource creates a Source seeded with seed
func NewSource(seed int64) *Source {
	return &Source{seed: seed, rnd: rand.New(rand.NewSource(seed))}
}

//Seed returns the seed of the current sequence
func (s *Source) Seed() int64 {
	return s.seed
}

//Reseed restarts the sequence from seed
func (s *Source) Reseed(seed int64) {
	s.seed = seed
	s.rnd.Seed(seed)
}

//Intn returns a uniform int in [0,n), n must be positive
func (s *Source) Intn(n int) int {
	return s.rnd.Intn(n)
}
