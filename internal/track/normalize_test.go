package track

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_BareIDs(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"int", 42, 42},
		{"int64", int64(7), 7},
		{"uint32", uint32(9), 9},
		{"integral float", float64(11), 11},
		{"numeric string", " 12 ", 12},
		{"json number", json.Number("13"), 13},
		{"raw json number", json.RawMessage("14"), 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestNormalize_RejectsMissingOrNonNumericID(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"zero", 0},
		{"negative", -3},
		{"fractional", 1.5},
		{"word", "abc"},
		{"bool", true},
		{"object without id", map[string]any{"title": "x"}},
		{"object with text id", map[string]any{"id": "x1"}},
		{"empty descriptor", Descriptor{}},
		{"nil descriptor pointer", (*Descriptor)(nil)},
		{"broken json", []byte("{")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Normalize(%v) error = %v, want *ValidationError", tt.in, err)
			}
		})
	}
}

func TestNormalize_Object(t *testing.T) {
	got, err := Normalize(map[string]any{
		"trackId":  float64(5),
		"title":    "Night Drive",
		"artist":   map[string]any{"id": float64(80), "fullName": "Ana Reyes", "username": "ana"},
		"coverUrl": "https://cdn.example/5.jpg",
		"duration": float64(215),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), got.ID)
	assert.Equal(t, "Night Drive", got.Title)
	assert.Equal(t, "Ana Reyes", got.ArtistName)
	assert.Equal(t, int64(80), got.ArtistID)
	assert.Equal(t, "https://cdn.example/5.jpg", got.CoverURL)
	assert.Equal(t, "https://cdn.example/5.jpg", got.ArtworkURL, "artwork falls back to cover")
	assert.Equal(t, 215*time.Second, got.Duration)
}

func TestNormalize_ArtistNamePreference(t *testing.T) {
	tests := []struct {
		name string
		obj  map[string]any
		want string
	}{
		{
			name: "string artist field wins",
			obj:  map[string]any{"id": 1, "artistName": "Flat", "artist": map[string]any{"fullName": "Nested"}},
			want: "Flat",
		},
		{
			name: "plain string artist",
			obj:  map[string]any{"id": 1, "artist": "Plain"},
			want: "Plain",
		},
		{
			name: "nested full name before username",
			obj:  map[string]any{"id": 1, "artist": map[string]any{"fullName": "Full", "username": "user"}},
			want: "Full",
		},
		{
			name: "nested username",
			obj:  map[string]any{"id": 1, "artist": map[string]any{"username": "user"}},
			want: "user",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.obj)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ArtistName)
		})
	}
}

func TestNormalize_ArtworkFallsBackToCover(t *testing.T) {
	got, err := Normalize(json.RawMessage(`{"id": 3, "artwork_url": "a.png"}`))
	require.NoError(t, err)
	assert.Equal(t, "a.png", got.CoverURL)
	assert.Equal(t, "a.png", got.ArtworkURL)
}

func TestNormalize_Detail(t *testing.T) {
	d := &Detail{
		Descriptor: Descriptor{ID: 21, Title: "Tide"},
		Artist:     ArtistSummary{ID: 4, Username: "wave"},
	}
	got, err := Normalize(d)
	require.NoError(t, err)
	assert.Equal(t, int64(21), got.ID)
	assert.Equal(t, "wave", got.ArtistName)
	assert.Equal(t, int64(4), got.ArtistID)
}

func TestDedupe_PreservesFirstOccurrence(t *testing.T) {
	got := Dedupe([]any{
		map[string]any{"id": 1, "title": "first"},
		map[string]any{"id": 2},
		map[string]any{"id": 1, "title": "second"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestDedupe_DropsInvalidEntries(t *testing.T) {
	got := Dedupe([]any{1, "nope", nil, 2, map[string]any{}})

	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
}

func TestIndexOf(t *testing.T) {
	ds := []Descriptor{{ID: 4}, {ID: 8}}
	assert.Equal(t, 1, IndexOf(ds, 8))
	assert.Equal(t, -1, IndexOf(ds, 9))
}

func TestDescriptor_Merge(t *testing.T) {
	old := Descriptor{ID: 1, Title: "old", ArtistName: "someone", Duration: time.Minute}
	got := old.Merge(Descriptor{ID: 99, Title: "new", AudioURL: "https://cdn/1.mp3"})

	assert.Equal(t, int64(1), got.ID, "merge never changes the id")
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "someone", got.ArtistName)
	assert.Equal(t, "https://cdn/1.mp3", got.AudioURL)
	assert.Equal(t, time.Minute, got.Duration)
}

func TestDetail_CloneIsDeep(t *testing.T) {
	d := &Detail{Descriptor: Descriptor{ID: 1}, Waveform: []float64{0.1, 0.2}}
	c := d.Clone()
	c.Waveform[0] = 9

	assert.InDelta(t, 0.1, d.Waveform[0], 1e-9)
	assert.Nil(t, (*Detail)(nil).Clone())
}
