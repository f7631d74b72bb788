package playback

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/echoes/internal/api"
	"github.com/llehouerou/echoes/internal/track"
)

func TestLikeCurrentTrack_Toggles(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1)
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{}))

		require.NoError(t, svc.LikeCurrentTrack(ctx))
		cur := svc.Snapshot().CurrentTrack
		assert.True(t, cur.IsLiked)
		assert.Equal(t, 11, cur.LikesCount)

		require.NoError(t, svc.LikeCurrentTrack(ctx))
		cur = svc.Snapshot().CurrentTrack
		assert.False(t, cur.IsLiked)
		assert.Equal(t, 10, cur.LikesCount)

		assert.Equal(t, []int64{1}, g.calls(&g.likes))
		assert.Equal(t, []int64{1}, g.calls(&g.unlikes))
	})
}

func TestLikeCurrentTrack_FailureLeavesStateUnchanged(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1)
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{}))

		g.setMutationErr(fmt.Errorf("like track 1: %w", api.ErrNetwork))
		err := svc.LikeCurrentTrack(ctx)
		require.ErrorIs(t, err, api.ErrNetwork)

		snap := svc.Snapshot()
		assert.False(t, snap.CurrentTrack.IsLiked)
		assert.Equal(t, 10, snap.CurrentTrack.LikesCount)
		assert.False(t, snap.LikeInFlight)
	})
}

func TestLikeCurrentTrack_SecondCallWhileInFlightIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1)
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{}))

		gate := g.blockMutations()
		first := make(chan error, 1)
		go func() { first <- svc.LikeCurrentTrack(ctx) }()
		synctest.Wait()

		assert.True(t, svc.Snapshot().LikeInFlight)
		require.NoError(t, svc.LikeCurrentTrack(ctx))
		assert.Len(t, g.calls(&g.likes), 1)

		close(gate)
		require.NoError(t, <-first)
		snap := svc.Snapshot()
		assert.False(t, snap.LikeInFlight)
		assert.True(t, snap.CurrentTrack.IsLiked)
	})
}

func TestLikeCurrentTrack_NotAppliedAfterTrackChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1, 2)
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{Queue: ids(1, 2)}))

		gate := g.blockMutations()
		first := make(chan error, 1)
		go func() { first <- svc.LikeCurrentTrack(ctx) }()
		synctest.Wait()

		require.NoError(t, svc.Next(ctx))
		close(gate)
		require.NoError(t, <-first)

		cur := svc.Snapshot().CurrentTrack
		assert.Equal(t, int64(2), cur.ID)
		assert.False(t, cur.IsLiked)
		assert.Equal(t, 10, cur.LikesCount)
	})
}

func TestLikeCurrentTrack_CountFlooredAtZero(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1)
		g.details[1].IsLiked = true
		g.details[1].LikesCount = 0
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{}))

		require.NoError(t, svc.LikeCurrentTrack(ctx))
		cur := svc.Snapshot().CurrentTrack
		assert.False(t, cur.IsLiked)
		assert.Equal(t, 0, cur.LikesCount)
	})
}

func TestLikeCurrentTrack_NoCurrentTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway()
		svc, _ := newTestService(t, g)
		defer svc.Close()

		require.NoError(t, svc.LikeCurrentTrack(context.Background()))
		assert.Empty(t, g.calls(&g.likes))
	})
}

func TestFollowCurrentArtist(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1)
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{}))

		require.NoError(t, svc.FollowCurrentArtist(ctx))
		assert.True(t, svc.Snapshot().CurrentTrack.IsFollowing)
		assert.Equal(t, []int64{101}, g.calls(&g.follows))

		require.NoError(t, svc.FollowCurrentArtist(ctx))
		assert.False(t, svc.Snapshot().CurrentTrack.IsFollowing)
		assert.Equal(t, []int64{101}, g.calls(&g.unfollows))
	})
}

func TestFollowCurrentArtist_NoArtist(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1)
		g.details[1].Artist = track.ArtistSummary{}
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{}))

		require.NoError(t, svc.FollowCurrentArtist(ctx))
		assert.Empty(t, g.calls(&g.follows))
		assert.False(t, svc.Snapshot().FollowInFlight)
	})
}

func TestFollowCurrentArtist_AuthFailure(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		g := newFakeGateway(1)
		svc, _ := newTestService(t, g)
		defer svc.Close()
		ctx := context.Background()
		require.NoError(t, svc.Play(ctx, 1, PlayOptions{}))

		g.setMutationErr(errors.Join(errors.New("follow user 101"), api.ErrAuthRequired))
		err := svc.FollowCurrentArtist(ctx)
		require.ErrorIs(t, err, api.ErrAuthRequired)

		snap := svc.Snapshot()
		assert.False(t, snap.CurrentTrack.IsFollowing)
		assert.False(t, snap.FollowInFlight)
	})
}
