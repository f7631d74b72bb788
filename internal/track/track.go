// Package track defines the track descriptors carried by the play queue and
// the full track details fetched from the backend.
package track

import (
	"slices"
	"time"
)

// Descriptor is a lightweight queue entry. It is enough to enqueue a track
// before its full detail has been fetched.
type Descriptor struct {
	ID         int64
	Title      string
	ArtistName string
	ArtistID   int64  // 0 if unknown
	AudioURL   string // populated lazily from the detail
	CoverURL   string
	ArtworkURL string
	Duration   time.Duration // 0 if unknown
}

// ArtistSummary is the artist block nested in a track detail.
type ArtistSummary struct {
	ID        int64
	Username  string
	FullName  string
	AvatarURL string
}

// DisplayName returns the full name, falling back to the username.
func (a ArtistSummary) DisplayName() string {
	if a.FullName != "" {
		return a.FullName
	}
	return a.Username
}

// Detail is the full track record fetched when a queue position becomes current.
type Detail struct {
	Descriptor

	Description string
	Waveform    []float64
	PlaysCount  int
	LikesCount  int
	IsPrivate   bool
	CreatedAt   time.Time
	UploadedAt  time.Time
	IsLiked     bool
	IsFollowing bool
	Artist      ArtistSummary
}

// Clone returns a deep copy of the detail.
func (d *Detail) Clone() *Detail {
	if d == nil {
		return nil
	}
	c := *d
	c.Waveform = slices.Clone(d.Waveform)
	return &c
}

// AsDescriptor returns the queue entry view of the detail, with the artist
// fields resolved from the nested summary when they are missing.
func (d *Detail) AsDescriptor() Descriptor {
	desc := d.Descriptor
	if desc.ArtistName == "" {
		desc.ArtistName = d.Artist.DisplayName()
	}
	if desc.ArtistID == 0 {
		desc.ArtistID = d.Artist.ID
	}
	return desc.withArtworkFallback()
}

// Merge returns the descriptor updated with the non-empty fields of fresh.
// The id is never changed.
func (d Descriptor) Merge(fresh Descriptor) Descriptor {
	if fresh.Title != "" {
		d.Title = fresh.Title
	}
	if fresh.ArtistName != "" {
		d.ArtistName = fresh.ArtistName
	}
	if fresh.ArtistID != 0 {
		d.ArtistID = fresh.ArtistID
	}
	if fresh.AudioURL != "" {
		d.AudioURL = fresh.AudioURL
	}
	if fresh.CoverURL != "" {
		d.CoverURL = fresh.CoverURL
	}
	if fresh.ArtworkURL != "" {
		d.ArtworkURL = fresh.ArtworkURL
	}
	if fresh.Duration > 0 {
		d.Duration = fresh.Duration
	}
	return d.withArtworkFallback()
}

func (d Descriptor) withArtworkFallback() Descriptor {
	if d.CoverURL == "" {
		d.CoverURL = d.ArtworkURL
	}
	if d.ArtworkURL == "" {
		d.ArtworkURL = d.CoverURL
	}
	return d
}
