package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/payerdesk/internal/domain/registry"
	pkgerrors "github.com/yungbote/payerdesk/internal/pkg/errors"
	"github.com/yungbote/payerdesk/internal/pkg/pointers"
	"github.com/yungbote/payerdesk/internal/taxonomy"
)

const (
	OpMapUnmapped = "map_unmapped_to_payer"
	OpRenamePayer = "rename_payer"
	OpAssignGroup = "assign_group"
	OpCreateGroup = "create_group_and_assign"
)

// MapUnmappedToPayer links a loaded unmapped detail to payerID. On
// acknowledgment the detail leaves the unmapped page and its total drops by one.
func (s *Session) MapUnmappedToPayer(ctx context.Context, detailID int64, payerID string) Outcome {
	key := detailKey(detailID)
	if !s.Unmapped.Contains(key) {
		return s.reject(OpMapUnmapped, "detail %d is not in the loaded unmapped page", detailID)
	}
	if strings.TrimSpace(payerID) == "" {
		return s.reject(OpMapUnmapped, "payer id required")
	}

	if err := s.store.MapPayer(ctx, detailID, payerID); err != nil {
		return s.fail(OpMapUnmapped, err, "detail_id", detailID, "payer_id", payerID)
	}

	s.Unmapped.Remove(key)
	s.Unmapped.AdjustTotal(-1)
	s.log.Info("Unmapped detail mapped", "detail_id", detailID, "payer_id", payerID)
	return committed(OpMapUnmapped)
}

// RenamePayer sets the display name of a payer on the loaded page. A blank
// name clears the override.
func (s *Session) RenamePayer(ctx context.Context, payerID, prettyName string) Outcome {
	if !s.Payers.Contains(payerID) {
		return s.reject(OpRenamePayer, "payer %q is not in the loaded payers page", payerID)
	}

	if err := s.store.UpdatePrettyName(ctx, payerID, prettyName); err != nil {
		return s.fail(OpRenamePayer, err, "payer_id", payerID)
	}

	s.Payers.Patch(payerID, func(p *registry.Payer) { p.PrettyName = pointers.NonEmpty(prettyName) })
	return committed(OpRenamePayer)
}

// AssignGroup moves a payer into the selected group, or out of any group.
// A PendingCreation selection is refused without calling the store. When the
// group is not yet registered, the full forest is fetched and merged.
func (s *Session) AssignGroup(ctx context.Context, payerID string, sel taxonomy.GroupSelection) Outcome {
	var groupID string
	switch sel.Kind() {
	case taxonomy.SelectionPendingCreation:
		return s.reject(OpAssignGroup, "group creation still in progress")
	case taxonomy.SelectionAssigned:
		groupID, _ = sel.GroupID()
	case taxonomy.SelectionUnassigned:
		groupID = ""
	default:
		return s.reject(OpAssignGroup, "unknown selection %s", sel)
	}

	if err := s.store.UpdateGroup(ctx, payerID, groupID); err != nil {
		return s.fail(OpAssignGroup, err, "payer_id", payerID, "group_id", groupID)
	}

	s.patchGroup(payerID, groupID)
	if groupID != "" && !s.Registry.Contains(groupID) {
		added, err := s.ensureRegistered(ctx, groupID)
		switch {
		case err != nil:
			s.log.Warn("Group registry refresh failed after assignment", "group_id", groupID, "error", err)
		case !s.Registry.Contains(groupID):
			s.log.Warn("Assigned group missing from store forest", "group_id", groupID)
		default:
			s.log.Debug("Group registry refreshed", "group_id", groupID, "added", added)
		}
	}
	return committed(OpAssignGroup)
}

// CreateGroupAndAssign derives a group id from rawText, assigns the payer to
// it and registers the group under that id. If the id already exists the
// payer simply joins that group and the registered name is kept.
func (s *Session) CreateGroupAndAssign(ctx context.Context, payerID, rawText string) Outcome {
	groupID := taxonomy.ToCanonicalID(rawText)
	if groupID == "" {
		return s.reject(OpCreateGroup, "group name required")
	}
	if s.Registry.Contains(groupID) {
		s.log.Info("Group already registered, assigning to it", "group_id", groupID)
	}

	if err := s.store.UpdateGroup(ctx, payerID, groupID); err != nil {
		return s.fail(OpCreateGroup, err, "payer_id", payerID, "group_id", groupID)
	}

	s.patchGroup(payerID, groupID)
	s.Registry.Merge(registry.FlattenedGroup{GroupID: groupID, GroupName: groupID})
	return committed(OpCreateGroup)
}

func (s *Session) patchGroup(payerID, groupID string) {
	if !s.Payers.Patch(payerID, func(p *registry.Payer) { p.GroupID = pointers.NonEmpty(groupID) }) {
		s.log.Debug("Acknowledged payer is not on the loaded page", "payer_id", payerID)
	}
}

func committed(op string) Outcome { return Outcome{Op: op, State: OutcomeCommitted} }

func (s *Session) reject(op, format string, args ...any) Outcome {
	err := fmt.Errorf("%w: %s: %s", pkgerrors.ErrRejected, op, fmt.Sprintf(format, args...))
	s.log.Debug("Operation rejected", "op", op, "error", err)
	return Outcome{Op: op, State: OutcomeRejected, Err: err}
}

func (s *Session) fail(op string, cause error, kv ...any) Outcome {
	err := fmt.Errorf("%w: %s: %w", pkgerrors.ErrMutationFailed, op, cause)
	fields := append([]any{"op", op, "error", cause}, kv...)
	s.log.Warn("Mutation failed", fields...)
	return Outcome{Op: op, State: OutcomeFailed, Err: err}
}
