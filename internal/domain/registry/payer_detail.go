package registry

import (
	"time"

	"gorm.io/datatypes"
)

// PayerDetail is a raw payer row as loaded from a source spreadsheet.
// MappedAt is set once an operator has linked it to a canonical payer.
type PayerDetail struct {
	DetailID  int64          `gorm:"column:detail_id;primaryKey;autoIncrement" json:"detail_id"`
	PayerID   string         `gorm:"column:payer_id;size:50;not null;index" json:"payer_id"`
	PayerName string         `gorm:"column:payer_name;size:255;not null" json:"payer_name"`
	State     string         `gorm:"column:state;size:8" json:"state"`
	Source    string         `gorm:"column:source;size:255" json:"source"`
	Raw       datatypes.JSON `gorm:"column:raw" json:"raw,omitempty"`
	MappedAt  *time.Time     `gorm:"column:mapped_at;index" json:"mapped_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (PayerDetail) TableName() string { return "payer_details" }

// UnmappedDetail is a detail flagged for manual assignment.
type UnmappedDetail struct {
	DetailID  int64  `json:"detail_id"`
	PayerName string `json:"payer_name"`
	PayerID   string `json:"payer_id"`
	Source    string `json:"source"`
	State     string `json:"state"`
}

func (d PayerDetail) Unmapped() UnmappedDetail {
	return UnmappedDetail{
		DetailID:  d.DetailID,
		PayerName: d.PayerName,
		PayerID:   d.PayerID,
		Source:    d.Source,
		State:     d.State,
	}
}
