package taxonomy

import (
	"sort"
	"sync"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

// Registry is the complete, name-sorted list of selectable groups. It is
// seeded from a full fetch of the group forest and grows through Merge as new
// groups are acknowledged. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	groups []registry.FlattenedGroup
	ids    map[string]int
}

func NewRegistry() *Registry {
	return &Registry{ids: map[string]int{}}
}

// Seed replaces the contents with the flattened forest. When the forest
// holds the same id twice, the entry that sorts first is kept.
func (r *Registry) Seed(forest []registry.Group) {
	flat := Flatten(forest)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = make([]registry.FlattenedGroup, 0, len(flat))
	r.ids = make(map[string]int, len(flat))
	for _, g := range flat {
		if _, ok := r.ids[g.GroupID]; ok {
			continue
		}
		r.ids[g.GroupID] = len(r.groups)
		r.groups = append(r.groups, g)
	}
}

// Merge adds candidate unless its id is already registered, in which case the
// existing entry (and its name) is left untouched. It reports whether the
// candidate was added.
func (r *Registry) Merge(candidate registry.FlattenedGroup) bool {
	if candidate.GroupID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ids[candidate.GroupID]; ok {
		return false
	}
	at := sort.Search(len(r.groups), func(i int) bool { return Less(candidate, r.groups[i]) })
	r.groups = append(r.groups, registry.FlattenedGroup{})
	copy(r.groups[at+1:], r.groups[at:])
	r.groups[at] = candidate
	r.reindexFrom(at)
	return true
}

// MergeForest merges every node of forest and returns how many were added.
func (r *Registry) MergeForest(forest []registry.Group) int {
	added := 0
	for _, g := range Flatten(forest) {
		if r.Merge(g) {
			added++
		}
	}
	return added
}

func (r *Registry) reindexFrom(at int) {
	for i := at; i < len(r.groups); i++ {
		r.ids[r.groups[i].GroupID] = i
	}
}

func (r *Registry) Contains(groupID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[groupID]
	return ok
}

func (r *Registry) Lookup(groupID string) (registry.FlattenedGroup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.ids[groupID]
	if !ok {
		return registry.FlattenedGroup{}, false
	}
	return r.groups[i], true
}

// Label resolves a grouping key for display. Unknown keys render as
// themselves.
func (r *Registry) Label(key string) string {
	if key == UnassignedKey {
		return UnassignedLabel
	}
	if g, ok := r.Lookup(key); ok && g.GroupName != "" {
		return g.GroupName
	}
	return key
}

// List returns a copy of the sorted entries.
func (r *Registry) List() []registry.FlattenedGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]registry.FlattenedGroup, len(r.groups))
	copy(out, r.groups)
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}
