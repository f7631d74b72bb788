//go:build linux

package mpris

import (
	"net/url"

	"github.com/llehouerou/echoes/internal/track"
)

// artURL returns the artwork to advertise for d: the artwork url, else the
// cover url, as long as it is an absolute http(s) or file url.
func artURL(d *track.Descriptor) string {
	for _, candidate := range []string{d.ArtworkURL, d.CoverURL} {
		u, err := url.Parse(candidate)
		if err != nil || candidate == "" {
			continue
		}
		switch u.Scheme {
		case "http", "https", "file":
			return candidate
		}
	}
	return ""
}
