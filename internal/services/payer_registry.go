package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/data/repos"
	"github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/observability"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/payerdesk/internal/pkg/errors"
	"github.com/yungbote/payerdesk/internal/pkg/pointers"
	"github.com/yungbote/payerdesk/internal/platform/apierr"
	"github.com/yungbote/payerdesk/internal/platform/logger"
	"github.com/yungbote/payerdesk/internal/taxonomy"
)

var (
	errPayerNotFound  = apierr.NotFound("payer_not_found", fmt.Errorf("payer: %w", pkgerrors.ErrNotFound))
	errDetailNotFound = apierr.NotFound("detail_not_found", fmt.Errorf("payer detail: %w", pkgerrors.ErrNotFound))
)

func missingField(name string) error {
	return apierr.BadRequest("missing_"+name, fmt.Errorf("%w: %s is required", pkgerrors.ErrInvalidArgument, name))
}

type PayerRegistryService interface {
	ListPayers(dbc dbctx.Context, p Pagination) (*registry.PayerPage, error)
	// ListGroups pages over root groups; each root carries its whole subtree.
	ListGroups(dbc dbctx.Context, p Pagination) (*registry.GroupPage, error)
	// UpdatePrettyName clears the override when prettyName is blank.
	UpdatePrettyName(dbc dbctx.Context, payerID, prettyName string) error
	// UpdateGroup clears the group when groupID is blank. An unknown groupID
	// creates a root group named after the id.
	UpdateGroup(dbc dbctx.Context, payerID, groupID string) error
}

type payerRegistryService struct {
	db     *gorm.DB
	log    *logger.Logger
	payers repos.PayerRepo
	groups repos.PayerGroupRepo
}

func NewPayerRegistryService(db *gorm.DB, baseLog *logger.Logger, payers repos.PayerRepo, groups repos.PayerGroupRepo) PayerRegistryService {
	return &payerRegistryService{
		db:     db,
		log:    baseLog.With("service", "PayerRegistryService"),
		payers: payers,
		groups: groups,
	}
}

func (s *payerRegistryService) ListPayers(dbc dbctx.Context, p Pagination) (*registry.PayerPage, error) {
	rows, total, err := s.payers.List(dbc, p.Offset(), p.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list payers: %w", err)
	}
	out := &registry.PayerPage{Payers: make([]registry.Payer, 0, len(rows)), Total: int(total)}
	for _, r := range rows {
		out.Payers = append(out.Payers, *r)
	}
	return out, nil
}

func (s *payerRegistryService) ListGroups(dbc dbctx.Context, p Pagination) (*registry.GroupPage, error) {
	roots, total, err := s.groups.ListRoots(dbc, p.Offset(), p.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list root groups: %w", err)
	}
	out := &registry.GroupPage{Groups: []registry.Group{}, Total: int(total)}
	if len(roots) == 0 {
		return out, nil
	}
	all, err := s.groups.ListAll(dbc)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out.Groups = buildForest(roots, all)
	return out, nil
}

func (s *payerRegistryService) UpdatePrettyName(dbc dbctx.Context, payerID, prettyName string) error {
	payerID = strings.TrimSpace(payerID)
	if payerID == "" {
		return missingField("payer_id")
	}
	name := pointers.NonEmpty(strings.TrimSpace(prettyName))

	err := s.inTx(dbc, func(inner dbctx.Context) error {
		ok, err := s.payers.Exists(inner, payerID)
		if err != nil {
			return err
		}
		if !ok {
			return errPayerNotFound
		}
		_, err = s.payers.UpdatePrettyName(inner, payerID, name)
		return err
	})
	observability.Current().ObserveMutation("update_pretty_name", err)
	if err != nil {
		return err
	}
	s.log.Info("Payer renamed", "payer_id", payerID, "cleared", name == nil)
	return nil
}

func (s *payerRegistryService) UpdateGroup(dbc dbctx.Context, payerID, groupID string) error {
	payerID = strings.TrimSpace(payerID)
	if payerID == "" {
		return missingField("payer_id")
	}
	groupID = strings.TrimSpace(groupID)
	if taxonomy.ReservedGroupID(groupID) {
		return apierr.BadRequest("reserved_group_id", fmt.Errorf("%w: group_id %q is reserved", pkgerrors.ErrInvalidArgument, groupID))
	}

	created := false
	err := s.inTx(dbc, func(inner dbctx.Context) error {
		ok, err := s.payers.Exists(inner, payerID)
		if err != nil {
			return err
		}
		if !ok {
			return errPayerNotFound
		}
		if groupID != "" {
			if created, err = s.ensureGroup(inner, groupID); err != nil {
				return err
			}
		}
		_, err = s.payers.UpdateGroup(inner, payerID, pointers.NonEmpty(groupID))
		return err
	})
	observability.Current().ObserveMutation("update_group", err)
	if err != nil {
		return err
	}
	s.log.Info("Payer group updated", "payer_id", payerID, "group_id", groupID, "group_created", created)
	return nil
}

// ensureGroup creates a root group {id, id} unless id exists. A different
// group already holding the name id is a conflict.
func (s *payerRegistryService) ensureGroup(dbc dbctx.Context, groupID string) (bool, error) {
	existing, err := s.groups.GetByIDs(dbc, []string{groupID})
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	taken, err := s.groups.NameTaken(dbc, groupID)
	if err != nil {
		return false, err
	}
	if taken {
		return false, apierr.New(http.StatusConflict, "group_name_taken", fmt.Errorf("%w: group name %q belongs to another group", pkgerrors.ErrInvalidArgument, groupID))
	}
	if err := s.groups.CreateIgnoreDuplicates(dbc, []*registry.PayerGroup{{GroupID: groupID, GroupName: groupID}}); err != nil {
		return false, err
	}
	return true, nil
}

// inTx runs fn in a transaction unless dbc already carries one.
func (s *payerRegistryService) inTx(dbc dbctx.Context, fn func(dbctx.Context) error) error {
	return runInTx(s.db, dbc, fn)
}

func runInTx(db *gorm.DB, dbc dbctx.Context, fn func(dbctx.Context) error) error {
	if dbc.Tx != nil {
		return fn(dbc)
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// isNotFound reports gorm's record-not-found.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
