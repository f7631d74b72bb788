package track

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ValidationError reports a candidate that cannot be turned into a descriptor.
type ValidationError struct {
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid track descriptor (%T): %s", e.Value, e.Reason)
}

func invalid(v any, format string, args ...any) *ValidationError {
	return &ValidationError{Value: v, Reason: fmt.Sprintf(format, args...)}
}

// Normalize converts a track-like candidate into a Descriptor.
//
// Accepted candidates are bare ids (any integer kind, integral float64,
// numeric strings), Descriptor and Detail values or pointers, decoded JSON
// objects (map[string]any) and raw JSON objects (json.RawMessage, []byte).
// Anything without a positive numeric id fails with *ValidationError.
func Normalize(candidate any) (Descriptor, error) {
	switch v := candidate.(type) {
	case nil:
		return Descriptor{}, invalid(v, "nil candidate")
	case Descriptor:
		return checkID(v, v)
	case *Descriptor:
		if v == nil {
			return Descriptor{}, invalid(v, "nil descriptor")
		}
		return checkID(v, *v)
	case Detail:
		return checkID(v, v.AsDescriptor())
	case *Detail:
		if v == nil {
			return Descriptor{}, invalid(v, "nil detail")
		}
		return checkID(v, v.AsDescriptor())
	case map[string]any:
		return fromObject(v)
	case json.RawMessage:
		return fromJSON(v)
	case []byte:
		return fromJSON(v)
	default:
		id, ok := toID(v)
		if !ok {
			return Descriptor{}, invalid(v, "no numeric id")
		}
		return Descriptor{ID: id}, nil
	}
}

// Dedupe normalizes every item and drops duplicates by id, keeping the first
// occurrence. Invalid items are logged and skipped.
func Dedupe(items []any) []Descriptor {
	out := make([]Descriptor, 0, len(items))
	for i, item := range items {
		d, err := Normalize(item)
		if err != nil {
			zap.L().Warn("dropping invalid queue entry",
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		out = append(out, d)
	}
	return Unique(out)
}

// Unique drops descriptors whose id was already seen, preserving order.
func Unique(ds []Descriptor) []Descriptor {
	return lo.UniqBy(ds, func(d Descriptor) int64 { return d.ID })
}

// IndexOf returns the position of id in ds, or -1.
func IndexOf(ds []Descriptor, id int64) int {
	return slices.IndexFunc(ds, func(d Descriptor) bool { return d.ID == id })
}

func checkID(v any, d Descriptor) (Descriptor, error) {
	if d.ID <= 0 {
		return Descriptor{}, invalid(v, "id must be positive, got %d", d.ID)
	}
	return d.withArtworkFallback(), nil
}

func fromJSON(raw []byte) (Descriptor, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		// A bare JSON number is still a valid id.
		var n json.Number
		if numErr := json.Unmarshal(raw, &n); numErr == nil {
			return Normalize(n)
		}
		return Descriptor{}, invalid(raw, "decode json: %v", err)
	}
	return fromObject(obj)
}

func fromObject(obj map[string]any) (Descriptor, error) {
	raw, ok := lookup(obj, "id", "trackId", "track_id")
	if !ok {
		return Descriptor{}, invalid(obj, "missing id")
	}
	id, ok := toID(raw)
	if !ok {
		return Descriptor{}, invalid(obj, "id %v is not numeric", raw)
	}

	d := Descriptor{
		ID:         id,
		Title:      stringField(obj, "title", "name"),
		AudioURL:   stringField(obj, "audioUrl", "audio_url", "streamUrl", "stream_url"),
		CoverURL:   stringField(obj, "coverUrl", "cover_url"),
		ArtworkURL: stringField(obj, "artworkUrl", "artwork_url"),
	}

	artist, _ := lookup(obj, "artist", "user")
	d.ArtistName = resolveArtistName(obj, artist)
	if aid, ok := lookup(obj, "artistId", "artist_id"); ok {
		d.ArtistID, _ = toID(aid)
	} else if nested, ok := artist.(map[string]any); ok {
		if aid, ok := lookup(nested, "id"); ok {
			d.ArtistID, _ = toID(aid)
		}
	}

	if dur, ok := lookup(obj, "durationSeconds", "duration_seconds", "duration"); ok {
		if secs, ok := toFloat(dur); ok && secs > 0 {
			d.Duration = time.Duration(secs * float64(time.Second))
		}
	}

	return d.withArtworkFallback(), nil
}

// resolveArtistName prefers a plain string artist field, then the nested
// artist object's full name, then its username.
func resolveArtistName(obj map[string]any, artist any) string {
	if name := stringField(obj, "artistName", "artist_name"); name != "" {
		return name
	}
	switch a := artist.(type) {
	case string:
		return a
	case map[string]any:
		if name := stringField(a, "fullName", "full_name"); name != "" {
			return name
		}
		return stringField(a, "username")
	}
	return ""
}

func lookup(obj map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func stringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func toID(v any) (int64, bool) {
	var id int64
	switch n := v.(type) {
	case int:
		id = int64(n)
	case int8:
		id = int64(n)
	case int16:
		id = int64(n)
	case int32:
		id = int64(n)
	case int64:
		id = n
	case uint:
		id = int64(n)
	case uint8:
		id = int64(n)
	case uint16:
		id = int64(n)
	case uint32:
		id = int64(n)
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		id = int64(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt64 {
			return 0, false
		}
		id = int64(n)
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, false
		}
		id = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		id = parsed
	default:
		return 0, false
	}
	return id, id > 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	}
	return 0, false
}
