package taxonomy

import "fmt"

type SelectionKind int

const (
	SelectionUnassigned SelectionKind = iota
	SelectionAssigned
	SelectionPendingCreation
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionUnassigned:
		return "unassigned"
	case SelectionAssigned:
		return "assigned"
	case SelectionPendingCreation:
		return "pending_creation"
	default:
		return fmt.Sprintf("SelectionKind(%d)", int(k))
	}
}

// GroupSelection is what an operator picked in a group selector: a real
// group, no group, or "create a new group" while the name is being typed.
// PendingCreation is UI-only state and is never sent to the store.
type GroupSelection struct {
	kind    SelectionKind
	groupID string
}

// NewGroupOption is the selector value that starts group creation.
const NewGroupOption = "__new__"

func Assigned(groupID string) GroupSelection {
	if groupID == "" {
		return Unassigned()
	}
	return GroupSelection{kind: SelectionAssigned, groupID: groupID}
}

func Unassigned() GroupSelection { return GroupSelection{kind: SelectionUnassigned} }

func PendingCreation() GroupSelection { return GroupSelection{kind: SelectionPendingCreation} }

// ReservedGroupID reports whether id is one of the selector sentinels. The
// store refuses to create or assign groups under these ids, so a selector
// value never names a real group.
func ReservedGroupID(id string) bool {
	return id == UnassignedKey || id == NewGroupOption
}

// ParseSelection maps a raw selector value onto a GroupSelection.
func ParseSelection(raw string) GroupSelection {
	switch raw {
	case "", UnassignedKey:
		return Unassigned()
	case NewGroupOption:
		return PendingCreation()
	default:
		return Assigned(raw)
	}
}

func (s GroupSelection) Kind() SelectionKind { return s.kind }

// GroupID returns the selected id; ok is false unless the selection is Assigned.
func (s GroupSelection) GroupID() (id string, ok bool) {
	return s.groupID, s.kind == SelectionAssigned
}

func (s GroupSelection) String() string {
	if s.kind == SelectionAssigned {
		return "assigned(" + s.groupID + ")"
	}
	return s.kind.String()
}
