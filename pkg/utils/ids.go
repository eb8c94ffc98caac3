package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseUUIDList parses a comma-separated id filter such as "a,b,c".
// Blank entries are skipped and duplicates collapsed, keeping first-seen order.
// An empty string yields an empty, non-nil slice.
func ParseUUIDList(raw string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	seen := make(map[uuid.UUID]struct{})
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
