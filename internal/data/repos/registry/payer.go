package registry

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type PayerRepo interface {
	List(dbc dbctx.Context, offset, limit int) ([]*types.Payer, int64, error)
	GetByIDs(dbc dbctx.Context, payerIDs []string) ([]*types.Payer, error)
	Exists(dbc dbctx.Context, payerID string) (bool, error)
	// CreateIgnoreDuplicates inserts rows whose payer_id is not taken yet.
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.Payer) error
	UpdatePrettyName(dbc dbctx.Context, payerID string, prettyName *string) (int64, error)
	UpdateGroup(dbc dbctx.Context, payerID string, groupID *string) (int64, error)
}

type payerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPayerRepo(db *gorm.DB, baseLog *logger.Logger) PayerRepo {
	return &payerRepo{
		db:  db,
		log: baseLog.With("repo", "PayerRepo"),
	}
}

func (r *payerRepo) List(dbc dbctx.Context, offset, limit int) ([]*types.Payer, int64, error) {
	tx := dbc.DB(r.db)
	var total int64
	if err := tx.Model(&types.Payer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	out := []*types.Payer{}
	if err := tx.
		Order("payer_id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *payerRepo) GetByIDs(dbc dbctx.Context, payerIDs []string) ([]*types.Payer, error) {
	out := []*types.Payer{}
	if len(payerIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("payer_id IN ?", payerIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *payerRepo) Exists(dbc dbctx.Context, payerID string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Payer{}).
		Where("payer_id = ?", payerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *payerRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.Payer) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *payerRepo) UpdatePrettyName(dbc dbctx.Context, payerID string, prettyName *string) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Payer{}).
		Where("payer_id = ?", payerID).
		Update("pretty_name", prettyName)
	return res.RowsAffected, res.Error
}

func (r *payerRepo) UpdateGroup(dbc dbctx.Context, payerID string, groupID *string) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Payer{}).
		Where("payer_id = ?", payerID).
		Update("group_id", groupID)
	return res.RowsAffected, res.Error
}
