package taxonomy

import (
	"sort"
	"strings"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

const (
	// UnassignedKey buckets payers without a group.
	UnassignedKey   = "unassigned"
	UnassignedLabel = "Unassigned"
)

// Grouping partitions one loaded page of payers by group key. It says
// nothing about payers on other pages.
type Grouping struct {
	// Keys lists bucket keys in order of first appearance.
	Keys    []string
	Buckets map[string][]registry.Payer
}

// KeyOf returns the payer's group id, or UnassignedKey.
func KeyOf(p registry.Payer) string {
	if g := p.Group(); g != "" {
		return g
	}
	return UnassignedKey
}

// GroupPayers buckets items by KeyOf, keeping their relative order.
func GroupPayers(items []registry.Payer) Grouping {
	g := Grouping{
		Keys:    make([]string, 0),
		Buckets: make(map[string][]registry.Payer),
	}
	for _, p := range items {
		key := KeyOf(p)
		if _, ok := g.Buckets[key]; !ok {
			g.Keys = append(g.Keys, key)
		}
		g.Buckets[key] = append(g.Buckets[key], p)
	}
	return g
}

// Count is the number of page payers in key's bucket.
func (g Grouping) Count(key string) int { return len(g.Buckets[key]) }

// Len is the number of payers across all buckets.
func (g Grouping) Len() int {
	n := 0
	for _, b := range g.Buckets {
		n += len(b)
	}
	return n
}

// Section is a labelled bucket ready for display.
type Section struct {
	Key    string
	Label  string
	Payers []registry.Payer
}

// Sections labels each bucket through reg and orders them by label, with the
// unassigned bucket last. A nil reg labels buckets with their raw keys.
func (g Grouping) Sections(reg *Registry) []Section {
	out := make([]Section, 0, len(g.Keys))
	for _, key := range g.Keys {
		label := key
		if reg != nil {
			label = reg.Label(key)
		} else if key == UnassignedKey {
			label = UnassignedLabel
		}
		out = append(out, Section{Key: key, Label: label, Payers: g.Buckets[key]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		ui, uj := out[i].Key == UnassignedKey, out[j].Key == UnassignedKey
		if ui != uj {
			return uj
		}
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out
}
