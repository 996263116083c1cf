package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/idilsaglam/techtrack/internal/model"
)

// decodeResult is what a raw document turns into after normalization.
type decodeResult struct {
	items   []model.TrackedItem
	dropped int  // entries that were not JSON objects
	changed bool // normalized form differs from what was stored
}

var errNotArray = errors.New("stored document is not a JSON array")

// decode parses a stored document and normalizes every record:
// missing or duplicate ids get fresh ones, missing title/description/
// category get placeholders, unknown status becomes not-started and notes
// are always a string.
func decode(raw []byte) (decodeResult, error) {
	var res decodeResult

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return res, errNotArray
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return res, fmt.Errorf("json unmarshal: %w", err)
	}

	seen := map[int]bool{}
	maxID := 0
	pending := []int{} // indexes of items still needing an id
	items := make([]model.TrackedItem, 0, len(records))

	for _, rec := range records {
		fields, ok := decodeObject(rec)
		if !ok {
			res.dropped++
			continue
		}
		it := normalizeRecord(fields)
		if it.ID > 0 && !seen[it.ID] {
			seen[it.ID] = true
			if it.ID > maxID {
				maxID = it.ID
			}
		} else {
			it.ID = 0
			pending = append(pending, len(items))
		}
		items = append(items, it)
	}

	for _, idx := range pending {
		maxID++
		items[idx].ID = maxID
	}

	res.items = items
	res.changed = res.dropped > 0 || !sameDocument(trimmed, items)
	return res, nil
}

func decodeObject(rec json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(rec))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func normalizeRecord(f map[string]any) model.TrackedItem {
	it := model.TrackedItem{
		ID:          toID(f["id"]),
		Title:       toText(f["title"]),
		Description: toText(f["description"]),
		Notes:       toText(f["notes"]),
		Category:    toText(f["category"]),
		Status:      model.NotStarted,
	}
	if strings.TrimSpace(it.Title) == "" {
		it.Title = model.UntitledTitle
	}
	if it.Category == "" {
		it.Category = model.UncategorizedCategory
	}
	if raw, ok := f["status"].(string); ok {
		if st, err := model.ParseStatus(raw); err == nil {
			it.Status = st
		}
	}
	return it
}

func toID(v any) int {
	switch x := v.(type) {
	case json.Number:
		n, err := strconv.Atoi(x.String())
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// toText coerces scalars to their textual form. Objects, arrays and null
// count as absent.
func toText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// sameDocument compares the stored JSON with the normalized collection
// structurally, ignoring formatting.
func sameDocument(raw []byte, items []model.TrackedItem) bool {
	norm, err := json.Marshal(items)
	if err != nil {
		return false
	}
	var a, b any
	if json.Unmarshal(raw, &a) != nil || json.Unmarshal(norm, &b) != nil {
		return false
	}
	return reflect.DeepEqual(a, b)
}
