// internal/store/fieldpath.go
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"lyricbingo/internal/models"
)

// applyFields produces a new room with the given dotted field paths set.
// Paths address JSON field names ("cards.p_ab12.marks"); intermediate maps
// are created as needed so a path like "players.<newID>" inserts an entry.
// Values are normalized through JSON so callers can pass model structs,
// slices, or plain literals interchangeably. A nil value sets the field to
// JSON null (used to clear currentClaim).
func applyFields(room *models.Room, fields map[string]any) (*models.Room, error) {
	raw, err := json.Marshal(room)
	if err != nil {
		return nil, fmt.Errorf("marshal room %s: %w", room.Code, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal room %s: %w", room.Code, err)
	}

	for path, value := range fields {
		norm, err := normalize(value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", path, err)
		}
		if err := setPath(doc, path, norm); err != nil {
			return nil, err
		}
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-marshal room %s: %w", room.Code, err)
	}
	out := &models.Room{}
	if err := json.Unmarshal(merged, out); err != nil {
		return nil, fmt.Errorf("decode updated room %s: %w", room.Code, err)
	}
	return out, nil
}

func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setPath(doc map[string]any, path string, value any) error {
	parts := strings.Split(path, ".")
	cur := doc
	for i, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok || next == nil {
			child := map[string]any{}
			cur[part] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("field path %q: %q is not an object", path, strings.Join(parts[:i+1], "."))
		}
		cur = child
	}
	cur[parts[len(parts)-1]] = value
	return nil
}

// cloneRoom deep-copies a room document so snapshots handed to callers and
// subscribers never alias store-internal state.
func cloneRoom(room *models.Room) (*models.Room, error) {
	raw, err := json.Marshal(room)
	if err != nil {
		return nil, err
	}
	out := &models.Room{}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
