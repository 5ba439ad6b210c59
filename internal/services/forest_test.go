package services

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/pkg/pointers"
)

func row(id, name string, parent string) *registry.PayerGroup {
	return &registry.PayerGroup{GroupID: id, GroupName: name, ParentID: pointers.NonEmpty(parent)}
}

func TestBuildForest(t *testing.T) {
	all := []*registry.PayerGroup{
		row("A", "Alpha", ""),
		row("B", "Beta", ""),
		row("A2", "Zed", "A"),
		row("A1", "Mid", "A"),
		row("A1a", "Leaf", "A1"),
		row("S", "Self", "S"),
	}
	roots := []*registry.PayerGroup{all[0], all[1]}

	got := buildForest(roots, all)
	require.Equal(t, []registry.Group{
		{GroupID: "A", GroupName: "Alpha", Children: []registry.Group{
			{GroupID: "A1", GroupName: "Mid", Children: []registry.Group{
				{GroupID: "A1a", GroupName: "Leaf", Children: []registry.Group{}},
			}},
			{GroupID: "A2", GroupName: "Zed", Children: []registry.Group{}},
		}},
		{GroupID: "B", GroupName: "Beta", Children: []registry.Group{}},
	}, got)
}

func TestBuildForestCycle(t *testing.T) {
	all := []*registry.PayerGroup{
		row("R", "Root", ""),
		row("X", "X", "R"),
		row("Y", "Y", "X"),
	}
	// Y claims R as a child, closing a loop back to the root.
	all = append(all, row("R", "Root again", "Y"))
	got := buildForest(all[:1], all)
	require.Len(t, got, 1)
	require.Equal(t, "X", got[0].Children[0].GroupID)
	require.Equal(t, "Y", got[0].Children[0].Children[0].GroupID)
	require.Empty(t, got[0].Children[0].Children[0].Children)
}

func TestBuildForestDeep(t *testing.T) {
	const depth = 5000
	all := []*registry.PayerGroup{row("g0", "g0", "")}
	for i := 1; i < depth; i++ {
		all = append(all, row(groupName(i), groupName(i), groupName(i-1)))
	}
	got := buildForest(all[:1], all)
	n := 0
	for node := got[0]; ; node = node.Children[0] {
		n++
		if len(node.Children) == 0 {
			break
		}
	}
	require.Equal(t, depth, n)
}

func groupName(i int) string { return "g" + strconv.Itoa(i) }
