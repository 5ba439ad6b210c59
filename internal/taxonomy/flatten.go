package taxonomy

import (
	"sort"
	"strings"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

// Flatten projects every node of forest, at any depth, into one
// FlattenedGroup and returns them ordered by Less. The walk is iterative so
// deep taxonomies cannot exhaust the call stack. forest is not modified.
func Flatten(forest []registry.Group) []registry.FlattenedGroup {
	out := make([]registry.FlattenedGroup, 0, len(forest))
	if len(forest) == 0 {
		return out
	}

	stack := make([]*registry.Group, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, &forest[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, registry.FlattenedGroup{GroupID: n.GroupID, GroupName: n.GroupName})
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, &n.Children[i])
		}
	}

	SortFlattened(out)
	return out
}

// CountNodes returns the number of nodes in forest.
func CountNodes(forest []registry.Group) int {
	n := 0
	stack := make([][]registry.Group, 0, 8)
	stack = append(stack, forest)
	for len(stack) > 0 {
		level := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n += len(level)
		for i := range level {
			if len(level[i].Children) > 0 {
				stack = append(stack, level[i].Children)
			}
		}
	}
	return n
}

// Less orders groups by name, case-insensitively, then by id.
func Less(a, b registry.FlattenedGroup) bool {
	la, lb := strings.ToLower(a.GroupName), strings.ToLower(b.GroupName)
	if la != lb {
		return la < lb
	}
	return a.GroupID < b.GroupID
}

func SortFlattened(groups []registry.FlattenedGroup) {
	sort.SliceStable(groups, func(i, j int) bool { return Less(groups[i], groups[j]) })
}
