package playlist

import (
	"slices"

	"github.com/llehouerou/echoes/internal/track"
)

// Queue is the play queue: an ordered list of descriptors, unique by id,
// plus the current position and the navigation modes.
type Queue struct {
	tracks       []track.Descriptor
	currentIndex int // -1 if nothing is current
	repeatMode   RepeatMode
	shuffle      bool
}

// NewQueue creates a new empty queue.
func NewQueue() *Queue {
	return &Queue{currentIndex: -1}
}

// Current returns a copy of the current descriptor, or nil if none.
func (q *Queue) Current() *track.Descriptor {
	return q.At(q.currentIndex)
}

// CurrentIndex returns the index of the current descriptor (-1 if none).
func (q *Queue) CurrentIndex() int {
	return q.currentIndex
}

// At returns a copy of the descriptor at index, or nil if out of range.
func (q *Queue) At(index int) *track.Descriptor {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	d := q.tracks[index]
	return &d
}

// MoveTo sets the current index. Returns the descriptor at that position,
// or nil (leaving the index unchanged) if the index is invalid.
func (q *Queue) MoveTo(index int) *track.Descriptor {
	if index < 0 || index >= len(q.tracks) {
		return nil
	}
	q.currentIndex = index
	return q.Current()
}

// Replace installs a new list of descriptors, dropping duplicate ids, and
// moves to index. An invalid index leaves nothing current.
func (q *Queue) Replace(tracks []track.Descriptor, index int) *track.Descriptor {
	q.tracks = track.Unique(slices.Clone(tracks))
	q.currentIndex = -1
	return q.MoveTo(index)
}

// Update merges fresh metadata into the descriptor at index. The entry keeps
// its id and position; a descriptor with a different id is ignored.
func (q *Queue) Update(index int, fresh track.Descriptor) bool {
	if index < 0 || index >= len(q.tracks) || q.tracks[index].ID != fresh.ID {
		return false
	}
	q.tracks[index] = q.tracks[index].Merge(fresh)
	return true
}

// Clear removes all descriptors and resets the current index.
func (q *Queue) Clear() {
	q.tracks = nil
	q.currentIndex = -1
}

// Tracks returns a copy of the descriptors in queue order.
func (q *Queue) Tracks() []track.Descriptor {
	return slices.Clone(q.tracks)
}

// Len returns the number of descriptors in the queue.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no descriptors.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// RepeatMode returns the current repeat mode.
func (q *Queue) RepeatMode() RepeatMode {
	return q.repeatMode
}

// SetRepeatMode sets the repeat mode.
func (q *Queue) SetRepeatMode(mode RepeatMode) {
	q.repeatMode = mode
}

// CycleRepeatMode advances off -> all -> one -> off and returns the new mode.
func (q *Queue) CycleRepeatMode() RepeatMode {
	q.repeatMode = q.repeatMode.Next()
	return q.repeatMode
}

// Shuffle returns whether shuffle is enabled.
func (q *Queue) Shuffle() bool {
	return q.shuffle
}

// SetShuffle enables or disables shuffle.
func (q *Queue) SetShuffle(enabled bool) {
	q.shuffle = enabled
}

// ToggleShuffle flips shuffle and returns the new value.
func (q *Queue) ToggleShuffle() bool {
	q.shuffle = !q.shuffle
	return q.shuffle
}

// NextIndex resolves the index reached by moving dir from the current
// position under the queue's modes.
func (q *Queue) NextIndex(dir Direction, p Picker) (int, bool) {
	return ResolveNextIndex(len(q.tracks), q.currentIndex, dir, q.shuffle, q.repeatMode, p)
}
