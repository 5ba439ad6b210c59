package services

import (
	"sort"

	"github.com/yungbote/payerdesk/internal/domain/registry"
)

// buildForest expands each root into its full subtree. Children are ordered
// by name then id. The walk is iterative, and a node reachable twice (a
// corrupt parent chain) is emitted once.
func buildForest(roots []*registry.PayerGroup, all []*registry.PayerGroup) []registry.Group {
	children := map[string][]*registry.PayerGroup{}
	for _, g := range all {
		if g.ParentID != nil && *g.ParentID != g.GroupID {
			children[*g.ParentID] = append(children[*g.ParentID], g)
		}
	}
	for _, kids := range children {
		sort.SliceStable(kids, func(i, j int) bool {
			if kids[i].GroupName != kids[j].GroupName {
				return kids[i].GroupName < kids[j].GroupName
			}
			return kids[i].GroupID < kids[j].GroupID
		})
	}

	visited := map[string]bool{}
	out := make([]registry.Group, 0, len(roots))
	for _, root := range roots {
		if visited[root.GroupID] {
			continue
		}
		out = append(out, buildTree(root, children, visited))
	}
	return out
}

type treeFrame struct {
	row  *registry.PayerGroup
	kids []registry.Group
	next int
}

func buildTree(root *registry.PayerGroup, children map[string][]*registry.PayerGroup, visited map[string]bool) registry.Group {
	visited[root.GroupID] = true
	stack := []treeFrame{{row: root, kids: []registry.Group{}}}
	for {
		top := &stack[len(stack)-1]
		rows := children[top.row.GroupID]
		if top.next < len(rows) {
			child := rows[top.next]
			top.next++
			if visited[child.GroupID] {
				continue
			}
			visited[child.GroupID] = true
			stack = append(stack, treeFrame{row: child, kids: []registry.Group{}})
			continue
		}
		node := registry.Group{GroupID: top.row.GroupID, GroupName: top.row.GroupName, Children: top.kids}
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return node
		}
		parent := &stack[len(stack)-1]
		parent.kids = append(parent.kids, node)
	}
}
