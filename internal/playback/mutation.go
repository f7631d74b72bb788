package playback

import (
	"context"

	"go.uber.org/zap"
)

// LikeCurrentTrack toggles the like on the current track.
//
// The change is applied only after the server confirms it, and only if the
// same track is still current. A call made while another like is in flight
// is ignored.
func (s *serviceImpl) LikeCurrentTrack(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.current == nil || s.likeInFlight {
		s.mu.Unlock()
		return nil
	}
	id, liked := s.current.ID, s.current.IsLiked
	s.likeInFlight = true
	s.publishLocked()
	s.mu.Unlock()

	var err error
	if liked {
		err = s.gateway.Unlike(ctx, id)
	} else {
		err = s.gateway.Like(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.likeInFlight = false
	if err != nil {
		s.publishLocked()
		s.logger.Warn("like failed", zap.Int64("track_id", id), zap.Bool("liked", liked), zap.Error(err))
		return err
	}
	if s.current != nil && s.current.ID == id && s.current.IsLiked == liked {
		s.current.IsLiked = !liked
		if liked {
			s.current.LikesCount = max(s.current.LikesCount-1, 0)
		} else {
			s.current.LikesCount++
		}
	}
	s.publishLocked()
	return nil
}

// FollowCurrentArtist toggles following the current track's artist, with the
// same confirm-then-apply rules as LikeCurrentTrack.
func (s *serviceImpl) FollowCurrentArtist(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.current == nil || s.followInFlight {
		s.mu.Unlock()
		return nil
	}
	artistID := s.current.AsDescriptor().ArtistID
	if artistID == 0 {
		s.mu.Unlock()
		return nil
	}
	following := s.current.IsFollowing
	s.followInFlight = true
	s.publishLocked()
	s.mu.Unlock()

	var err error
	if following {
		err = s.gateway.UnfollowArtist(ctx, artistID)
	} else {
		err = s.gateway.FollowArtist(ctx, artistID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.followInFlight = false
	if err != nil {
		s.publishLocked()
		s.logger.Warn("follow failed", zap.Int64("artist_id", artistID), zap.Bool("following", following), zap.Error(err))
		return err
	}
	if s.current != nil && s.current.AsDescriptor().ArtistID == artistID {
		s.current.IsFollowing = !following
	}
	s.publishLocked()
	return nil
}
