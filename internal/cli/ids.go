package cli

import (
	"fmt"
	"strings"

	"github.com/llehouerou/echoes/internal/track"
)

// ParseID parses a positive track id.
func ParseID(s string) (int64, error) {
	d, err := track.Normalize(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid track id %q", s)
	}
	return d.ID, nil
}

// ParseIDs parses a comma or space separated list of track ids.
func ParseIDs(s string) ([]int64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		id, err := ParseID(f)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
