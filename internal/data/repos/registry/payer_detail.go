package registry

import (
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/payerdesk/internal/domain/registry"
	"github.com/yungbote/payerdesk/internal/pkg/dbctx"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

const detailBatchSize = 100

type PayerDetailRepo interface {
	Create(dbc dbctx.Context, rows []*types.PayerDetail) ([]*types.PayerDetail, error)
	GetByID(dbc dbctx.Context, detailID int64) (*types.PayerDetail, error)
	// ListUnresolved returns details no operator has mapped yet, by detail_id.
	ListUnresolved(dbc dbctx.Context) ([]*types.PayerDetail, error)
	ListAll(dbc dbctx.Context) ([]*types.PayerDetail, error)
	// MapToPayer links one detail and stamps mapped_at.
	MapToPayer(dbc dbctx.Context, detailID int64, payerID string, at time.Time) (int64, error)
	// Relink points details at payerID without marking them operator-mapped.
	Relink(dbc dbctx.Context, detailIDs []int64, payerID string) error
	Count(dbc dbctx.Context) (int64, error)
}

type payerDetailRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPayerDetailRepo(db *gorm.DB, baseLog *logger.Logger) PayerDetailRepo {
	return &payerDetailRepo{
		db:  db,
		log: baseLog.With("repo", "PayerDetailRepo"),
	}
}

func (r *payerDetailRepo) Create(dbc dbctx.Context, rows []*types.PayerDetail) ([]*types.PayerDetail, error) {
	if len(rows) == 0 {
		return []*types.PayerDetail{}, nil
	}
	if err := dbc.DB(r.db).CreateInBatches(&rows, detailBatchSize).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *payerDetailRepo) GetByID(dbc dbctx.Context, detailID int64) (*types.PayerDetail, error) {
	var out types.PayerDetail
	if err := dbc.DB(r.db).
		Where("detail_id = ?", detailID).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *payerDetailRepo) ListUnresolved(dbc dbctx.Context) ([]*types.PayerDetail, error) {
	out := []*types.PayerDetail{}
	if err := dbc.DB(r.db).
		Where("mapped_at IS NULL").
		Order("detail_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *payerDetailRepo) ListAll(dbc dbctx.Context) ([]*types.PayerDetail, error) {
	out := []*types.PayerDetail{}
	if err := dbc.DB(r.db).
		Order("detail_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *payerDetailRepo) MapToPayer(dbc dbctx.Context, detailID int64, payerID string, at time.Time) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.PayerDetail{}).
		Where("detail_id = ?", detailID).
		Updates(map[string]any{
			"payer_id":  payerID,
			"mapped_at": at.UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *payerDetailRepo) Relink(dbc dbctx.Context, detailIDs []int64, payerID string) error {
	if len(detailIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.PayerDetail{}).
		Where("detail_id IN ?", detailIDs).
		Update("payer_id", payerID).Error
}

func (r *payerDetailRepo) Count(dbc dbctx.Context) (int64, error) {
	var n int64
	if err := dbc.DB(r.db).Model(&types.PayerDetail{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
