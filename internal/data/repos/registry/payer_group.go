package registry

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type PayerGroupRepo interface {
	// ListRoots pages over groups without a parent, ordered by name then id.
	ListRoots(dbc dbctx.Context, offset, limit int) ([]*types.PayerGroup, int64, error)
	ListAll(dbc dbctx.Context) ([]*types.PayerGroup, error)
	GetByIDs(dbc dbctx.Context, groupIDs []string) ([]*types.PayerGroup, error)
	NameTaken(dbc dbctx.Context, name string) (bool, error)
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.PayerGroup) error
}

type payerGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPayerGroupRepo(db *gorm.DB, baseLog *logger.Logger) PayerGroupRepo {
	return &payerGroupRepo{
		db:  db,
		log: baseLog.With("repo", "PayerGroupRepo"),
	}
}

func (r *payerGroupRepo) ListRoots(dbc dbctx.Context, offset, limit int) ([]*types.PayerGroup, int64, error) {
	tx := dbc.DB(r.db)
	var total int64
	if err := tx.Model(&types.PayerGroup{}).
		Where("parent_id IS NULL").
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []*types.PayerGroup{}
	if err := tx.
		Where("parent_id IS NULL").
		Order("group_name ASC").
		Order("group_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *payerGroupRepo) ListAll(dbc dbctx.Context) ([]*types.PayerGroup, error) {
	out := []*types.PayerGroup{}
	if err := dbc.DB(r.db).
		Order("group_name ASC").
		Order("group_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *payerGroupRepo) GetByIDs(dbc dbctx.Context, groupIDs []string) ([]*types.PayerGroup, error) {
	out := []*types.PayerGroup{}
	if len(groupIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("group_id IN ?", groupIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *payerGroupRepo) NameTaken(dbc dbctx.Context, name string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.PayerGroup{}).
		Where("group_name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *payerGroupRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.PayerGroup) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
