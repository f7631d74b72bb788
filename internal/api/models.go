package api

import (
	"time"

	"github.com/llehouerou/echoes/internal/track"
)

// Profile is the signed-in user as returned by /users/me.
type Profile struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

// DisplayName returns the full name, falling back to the username.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Username
}

type userResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"fullName"`
	AvatarURL string `json:"avatarUrl"`
}

type trackResponse struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	AudioURL     string       `json:"audioUrl"`
	CoverURL     string       `json:"coverUrl"`
	ArtworkURL   string       `json:"artworkUrl"`
	Duration     float64      `json:"duration"` // seconds
	WaveformData []float64    `json:"waveformData"`
	PlaysCount   int          `json:"playsCount"`
	LikesCount   int          `json:"likesCount"`
	IsPrivate    bool         `json:"isPrivate"`
	CreatedAt    string       `json:"createdAt"`
	UploadedAt   string       `json:"uploadedAt"`
	IsLiked      bool         `json:"isLiked"`
	IsFollowing  bool         `json:"isFollowing"`
	Artist       userResponse `json:"artist"`
}

// trackEnvelope accepts both a bare track object and {"track": {...}}.
type trackEnvelope struct {
	Track *trackResponse `json:"track"`
	trackResponse
}

func (e *trackEnvelope) body() *trackResponse {
	if e.Track != nil {
		return e.Track
	}
	return &e.trackResponse
}

func convertTrack(r *trackResponse) *track.Detail {
	d := &track.Detail{
		Descriptor: track.Descriptor{
			ID:         r.ID,
			Title:      r.Title,
			ArtistName: firstNonEmpty(r.Artist.FullName, r.Artist.Username),
			ArtistID:   r.Artist.ID,
			AudioURL:   r.AudioURL,
			CoverURL:   firstNonEmpty(r.CoverURL, r.ArtworkURL),
			ArtworkURL: firstNonEmpty(r.ArtworkURL, r.CoverURL),
		},
		Description: r.Description,
		Waveform:    r.WaveformData,
		PlaysCount:  r.PlaysCount,
		LikesCount:  max(r.LikesCount, 0),
		IsPrivate:   r.IsPrivate,
		CreatedAt:   parseTime(r.CreatedAt),
		UploadedAt:  parseTime(r.UploadedAt),
		IsLiked:     r.IsLiked,
		IsFollowing: r.IsFollowing,
		Artist: track.ArtistSummary{
			ID:        r.Artist.ID,
			Username:  r.Artist.Username,
			FullName:  r.Artist.FullName,
			AvatarURL: r.Artist.AvatarURL,
		},
	}
	if r.Duration > 0 {
		d.Duration = time.Duration(r.Duration * float64(time.Second))
	}
	return d
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// errorBody is the error payload shape of the backend.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
