package assembler

import (
	"sort"
	"time"
)

// firstByKey indexes rows by key keeping the first occurrence in source order.
// Rows without a key are skipped since they can never be joined.
func firstByKey[T any](rows []T, key func(*T) *string) map[string]*T {
	out := make(map[string]*T, len(rows))
	for i := range rows {
		k, ok := joinKey(key(&rows[i]))
		if !ok {
			continue
		}
		if _, seen := out[k]; seen {
			continue
		}
		out[k] = &rows[i]
	}
	return out
}

// latestByKey sorts rows by creation instant ascending, absent instants last,
// and keeps the last row per key. Ties keep source order.
func latestByKey[T any](rows []T, key func(*T) *string, createdAt func(*T) *string) map[string]*T {
	type ranked struct {
		row *T
		at  *time.Time
	}
	ordered := make([]ranked, len(rows))
	for i := range rows {
		ordered[i] = ranked{row: &rows[i], at: parseInstant(createdAt(&rows[i]))}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].at, ordered[j].at
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	out := make(map[string]*T, len(rows))
	for _, r := range ordered {
		if k, ok := joinKey(key(r.row)); ok {
			out[k] = r.row
		}
	}
	return out
}

func lookup[T any](index map[string]*T, key *string) *T {
	k, ok := joinKey(key)
	if !ok {
		return nil
	}
	return index[k]
}
