package api

import (
	"context"
	"fmt"

	"github.com/llehouerou/echoes/internal/track"
)

// FetchTrackDetail fetches the full record of a track.
func (c *Client) FetchTrackDetail(ctx context.Context, id int64) (*track.Detail, error) {
	var env trackEnvelope
	if err := c.get(ctx, fmt.Sprintf("/tracks/%d", id), &env); err != nil {
		return nil, fmt.Errorf("fetch track %d: %w", id, err)
	}
	body := env.body()
	if body.ID == 0 {
		body.ID = id
	}
	if body.ID != id {
		return nil, fmt.Errorf("fetch track %d: %w: response carries id %d", id, ErrNetwork, body.ID)
	}
	return convertTrack(body), nil
}

// Like adds the track to the user's likes.
func (c *Client) Like(ctx context.Context, trackID int64) error {
	if err := c.post(ctx, fmt.Sprintf("/tracks/%d/like", trackID)); err != nil {
		return fmt.Errorf("like track %d: %w", trackID, err)
	}
	return nil
}

// Unlike removes the track from the user's likes.
func (c *Client) Unlike(ctx context.Context, trackID int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/tracks/%d/like", trackID)); err != nil {
		return fmt.Errorf("unlike track %d: %w", trackID, err)
	}
	return nil
}

// FollowArtist follows a user.
func (c *Client) FollowArtist(ctx context.Context, artistID int64) error {
	if err := c.post(ctx, fmt.Sprintf("/users/%d/follow", artistID)); err != nil {
		return fmt.Errorf("follow user %d: %w", artistID, err)
	}
	return nil
}

// UnfollowArtist stops following a user.
func (c *Client) UnfollowArtist(ctx context.Context, artistID int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/users/%d/follow", artistID)); err != nil {
		return fmt.Errorf("unfollow user %d: %w", artistID, err)
	}
	return nil
}

// MarkPlayed records a play of the track.
func (c *Client) MarkPlayed(ctx context.Context, trackID int64) error {
	if err := c.post(ctx, fmt.Sprintf("/tracks/%d/play", trackID)); err != nil {
		return fmt.Errorf("mark track %d played: %w", trackID, err)
	}
	return nil
}

// FetchProfile returns the signed-in user.
func (c *Client) FetchProfile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.get(ctx, "/users/me", &p); err != nil {
		return Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return p, nil
}
