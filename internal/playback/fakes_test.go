package playback

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/llehouerou/echoes/internal/api"
	"github.com/llehouerou/echoes/internal/player"
	"github.com/llehouerou/echoes/internal/track"
)

// fakeGateway serves canned details. Calls for an id with a gate block until
// the gate is closed.
type fakeGateway struct {
	mu        sync.Mutex
	details   map[int64]*track.Detail
	fetchErrs map[int64]error
	gates     map[int64]chan struct{}
	mutErr    error
	mutGate   chan struct{}
	playedErr error

	fetches   []int64
	likes     []int64
	unlikes   []int64
	follows   []int64
	unfollows []int64
	played    []int64
}

func newFakeGateway(ids ...int64) *fakeGateway {
	g := &fakeGateway{
		details:   map[int64]*track.Detail{},
		fetchErrs: map[int64]error{},
		gates:     map[int64]chan struct{}{},
	}
	for _, id := range ids {
		g.details[id] = testDetail(id)
	}
	return g
}

func testDetail(id int64) *track.Detail {
	return &track.Detail{
		Descriptor: track.Descriptor{
			ID:       id,
			Title:    fmt.Sprintf("Track %d", id),
			AudioURL: audioURL(id),
		},
		LikesCount: 10,
		Artist:     track.ArtistSummary{ID: 100 + id, Username: fmt.Sprintf("artist%d", id)},
	}
}

func audioURL(id int64) string {
	return fmt.Sprintf("https://cdn.test/%d.mp3", id)
}

// block makes fetches of id wait until the returned channel is closed.
func (g *fakeGateway) block(id int64) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.gates[id] = ch
	return ch
}

// blockMutations makes like/follow calls wait until the channel is closed.
func (g *fakeGateway) blockMutations() chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mutGate = make(chan struct{})
	return g.mutGate
}

func (g *fakeGateway) setFetchErr(id int64, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fetchErrs[id] = err
}

func (g *fakeGateway) setMutationErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mutErr = err
}

func (g *fakeGateway) FetchTrackDetail(ctx context.Context, id int64) (*track.Detail, error) {
	g.mu.Lock()
	g.fetches = append(g.fetches, id)
	gate := g.gates[id]
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.fetchErrs[id]; err != nil {
		return nil, err
	}
	d, ok := g.details[id]
	if !ok {
		return nil, fmt.Errorf("fetch track %d: %w", id, api.ErrNotFound)
	}
	return d.Clone(), nil
}

func (g *fakeGateway) mutate(ctx context.Context, calls *[]int64, id int64) error {
	g.mu.Lock()
	*calls = append(*calls, id)
	gate, err := g.mutGate, g.mutErr
	g.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (g *fakeGateway) Like(ctx context.Context, id int64) error {
	return g.mutate(ctx, &g.likes, id)
}

func (g *fakeGateway) Unlike(ctx context.Context, id int64) error {
	return g.mutate(ctx, &g.unlikes, id)
}

func (g *fakeGateway) FollowArtist(ctx context.Context, id int64) error {
	return g.mutate(ctx, &g.follows, id)
}

func (g *fakeGateway) UnfollowArtist(ctx context.Context, id int64) error {
	return g.mutate(ctx, &g.unfollows, id)
}

func (g *fakeGateway) MarkPlayed(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.played = append(g.played, id)
	return g.playedErr
}

func (g *fakeGateway) calls(list *[]int64) []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int64(nil), (*list)...)
}

// newTestService creates a service over a mock sink. Callers close it.
func newTestService(t *testing.T, g *fakeGateway, configure ...func(*Options)) (Service, *player.Mock) {
	t.Helper()
	sink := player.NewMock()
	opts := DefaultOptions()
	for _, fn := range configure {
		fn(&opts)
	}
	return New(sink, g, opts), sink
}

func ids(items ...int64) []any {
	out := make([]any, len(items))
	for i, id := range items {
		out[i] = id
	}
	return out
}

func queueIDs(s Snapshot) []int64 {
	out := make([]int64, len(s.Queue))
	for i, d := range s.Queue {
		out[i] = d.ID
	}
	return out
}
