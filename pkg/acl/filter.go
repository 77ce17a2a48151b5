package acl

import (
	"fmt"
	"sort"
	"strings"
)

// Filter is the result of projecting a principal's rights for one
// action/object-type pair onto a result set. It collapses to one of three
// shapes: everything, nothing, or an explicit ID allow-list.
type Filter struct {
	all bool
	ids []int64
}

// FilterAll matches every row.
var FilterAll = Filter{all: true}

// FilterNone matches no rows.
var FilterNone = Filter{}

// RowFilter computes the set of object IDs of objectType the principal may
// perform action against, for embedding into a listing query. A wildcard
// grant (action, type or instance) yields FilterAll; no matching grants
// yield FilterNone; otherwise the filter carries the sorted union of
// literal IDs from every matching grant entry.
func (e *Engine) RowFilter(action, objectType string) Filter {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.tree == nil {
		return FilterNone
	}
	set := make(map[int64]struct{})
	for _, act := range [2]string{WildcardAction, action} {
		types, ok := e.tree[act]
		if !ok {
			continue
		}
		for _, typ := range [2]string{WildcardType, objectType} {
			ids, ok := types[typ]
			if !ok {
				continue
			}
			if _, ok := ids[WildcardID]; ok {
				return FilterAll
			}
			for id := range ids {
				set[id] = struct{}{}
			}
		}
	}
	if len(set) == 0 {
		return FilterNone
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return Filter{ids: ids}
}

// All reports whether the filter matches every row.
func (f Filter) All() bool { return f.all }

// Empty reports whether the filter matches no rows.
func (f Filter) Empty() bool { return !f.all && len(f.ids) == 0 }

// IDs returns the sorted allow-list, nil for the all and none shapes.
func (f Filter) IDs() []int64 { return f.ids }

// SQL renders the filter as a WHERE-clause fragment over column. IDs are
// int64 so inlining them is injection-safe.
func (f Filter) SQL(column string) string {
	switch {
	case f.all:
		return "TRUE"
	case len(f.ids) == 0:
		return "FALSE"
	case len(f.ids) == 1:
		return fmt.Sprintf("%s = %d", column, f.ids[0])
	default:
		parts := make([]string, len(f.ids))
		for i, id := range f.ids {
			parts[i] = fmt.Sprintf("%d", id)
		}
		return fmt.Sprintf("%s IN (%s)", column, strings.Join(parts, ","))
	}
}
