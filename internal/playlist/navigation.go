package playlist

import "math/rand/v2"

// Direction is the step taken through the queue.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// DefaultMaxShuffleRerolls bounds the random picks made while looking for an
// index different from the current one.
const DefaultMaxShuffleRerolls = 64

// Picker supplies randomness to ResolveNextIndex.
type Picker struct {
	Intn       func(n int) int // returns a value in [0, n); defaults to rand.IntN
	MaxRerolls int             // defaults to DefaultMaxShuffleRerolls
}

func (p Picker) intn(n int) int {
	if p.Intn == nil {
		return rand.IntN(n)
	}
	v := p.Intn(n)
	if v < 0 || v >= n {
		return 0
	}
	return v
}

// ResolveNextIndex computes the index reached by moving dir from current in a
// queue of the given length. The second result is false when there is no
// such index.
//
//   - Empty queue: none.
//   - Shuffle with more than one entry: a random index different from current.
//   - Otherwise current+dir; out of bounds wraps only under RepeatAll
//     (forward to 0, backward to the last index).
func ResolveNextIndex(length, current int, dir Direction, shuffle bool, mode RepeatMode, p Picker) (int, bool) {
	if length <= 0 {
		return -1, false
	}

	if shuffle && length > 1 {
		return shufflePick(length, current, p), true
	}

	next := current + int(dir)
	if next >= 0 && next < length {
		return next, true
	}

	if mode != RepeatAll {
		return -1, false
	}
	if dir == Backward {
		return length - 1, true
	}
	return 0, true
}

func shufflePick(length, current int, p Picker) int {
	rerolls := p.MaxRerolls
	if rerolls <= 0 {
		rerolls = DefaultMaxShuffleRerolls
	}
	for range rerolls {
		if i := p.intn(length); i != current {
			return i
		}
	}
	if current < 0 || current >= length {
		return 0
	}
	// Uniform over every index except current.
	return (current + 1 + p.intn(length-1)) % length
}
