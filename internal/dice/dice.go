// Package dice provides a deterministic, seed-derived PRNG and the dice
// mechanics the combat engine rolls against. A Stream forks into
// independent namespaced sub-streams so unrelated subsystems never share
// state — the same pattern the teacher uses when it derives sub-seeds
// ("seed+1" for rainfall noise, "seed+300" for the agent spawner), just
// generalized from integer offsets to arbitrary string namespaces.
package dice

import (
	"hash/fnv"
	"math/rand"
)

// Stream is a deterministic random source. Two Streams built from the same
// seed produce bit-identical results for the same call sequence.
type Stream struct {
	rng  *rand.Rand
	seed string
}

// New creates a root Stream from a string seed. An empty seed is invalid
// for world generation per spec §4.B, but Stream itself tolerates it
// (callers validate at their own boundary).
func New(seed string) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(hashSeed(seed))), seed: seed}
}

// Fork derives an independent sub-stream namespaced under this one, e.g.
// Fork("temp") on seed "S" behaves as if seeded with "S-temp".
func (s *Stream) Fork(namespace string) *Stream {
	child := s.seed + "-" + namespace
	return New(child)
}

// Seed returns the string this Stream was constructed from, so a caller
// persisting an encounter can re-derive an identical Stream on load
// (§8 round-trip law: "World → persist → load → world equals original").
func (s *Stream) Seed() string {
	return s.seed
}

func hashSeed(seed string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return int64(h.Sum64())
}

// D20Result is the outcome of a single d20 roll with a modifier.
type D20Result struct {
	Roll    int  // raw die face, 1-20
	Total   int  // Roll + bonus
	IsNat20 bool
	IsNat1  bool
}

// D20 rolls 1d20 and adds bonus.
func (s *Stream) D20(bonus int) D20Result {
	roll := s.rng.Intn(20) + 1
	return D20Result{
		Roll:    roll,
		Total:   roll + bonus,
		IsNat20: roll == 20,
		IsNat1:  roll == 1,
	}
}

// RollWithAdvantage rolls 1d20 twice and keeps the higher face, then adds bonus.
func (s *Stream) RollWithAdvantage(bonus int) D20Result {
	a := s.rng.Intn(20) + 1
	b := s.rng.Intn(20) + 1
	roll := a
	if b > roll {
		roll = b
	}
	return D20Result{Roll: roll, Total: roll + bonus, IsNat20: roll == 20, IsNat1: roll == 1}
}

// RollWithDisadvantage rolls 1d20 twice and keeps the lower face, then adds bonus.
func (s *Stream) RollWithDisadvantage(bonus int) D20Result {
	a := s.rng.Intn(20) + 1
	b := s.rng.Intn(20) + 1
	roll := a
	if b < roll {
		roll = b
	}
	return D20Result{Roll: roll, Total: roll + bonus, IsNat20: roll == 20, IsNat1: roll == 1}
}

// RollD20 applies advantage/disadvantage flags to a single d20 roll. If both
// flags are set, neither applies (spec §4.A).
func (s *Stream) RollD20(bonus int, advantage, disadvantage bool) D20Result {
	switch {
	case advantage && disadvantage:
		return s.D20(bonus)
	case advantage:
		return s.RollWithAdvantage(bonus)
	case disadvantage:
		return s.RollWithDisadvantage(bonus)
	default:
		return s.D20(bonus)
	}
}

// DieRoll is one die's face value within an expression trace.
type DieRoll struct {
	Sides int
	Face  int
}

// ExprResult is the outcome of an "NdM+K" expression roll.
type ExprResult struct {
	Total    int
	Dice     []DieRoll
	Modifier int
}

// RollExpr rolls n dice of sides `sides` and adds modifier, returning the
// per-die trace required by spec §4.A.
func (s *Stream) RollExpr(n, sides, modifier int) ExprResult {
	res := ExprResult{Modifier: modifier, Dice: make([]DieRoll, 0, n)}
	sum := 0
	for i := 0; i < n; i++ {
		face := s.rng.Intn(sides) + 1
		res.Dice = append(res.Dice, DieRoll{Sides: sides, Face: face})
		sum += face
	}
	res.Total = sum + modifier
	return res
}

// Degree is the four-way classification of a check against a DC.
type Degree string

const (
	CriticalFailure Degree = "critical-failure"
	Failure         Degree = "failure"
	Success         Degree = "success"
	CriticalSuccess Degree = "critical-success"
)

// CheckDegree classifies a d20 roll against a DC per spec §4.A: a natural
// 20 is always a critical success and a natural 1 is always a critical
// failure, overriding the numeric thresholds.
func CheckDegree(roll D20Result, dc int) Degree {
	if roll.IsNat20 {
		return CriticalSuccess
	}
	if roll.IsNat1 {
		return CriticalFailure
	}
	switch {
	case roll.Total >= dc+10:
		return CriticalSuccess
	case roll.Total >= dc:
		return Success
	case roll.Total <= dc-10:
		return CriticalFailure
	default:
		return Failure
	}
}

// Intn returns a uniform random int in [0, n). Exposed for callers (e.g.
// worldgen shuffles, name selection) that need a raw bounded draw from the
// same deterministic stream rather than a dice mechanic.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.rng.Intn(n)
}

// Float64 returns a uniform random float64 in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// Shuffle permutes a slice of length n in place using Fisher-Yates driven
// by the stream, mirroring math/rand.Shuffle's swap callback contract.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
