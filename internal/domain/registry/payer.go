package registry

import (
	"strings"
	"time"
)

// Payer is a canonical payer. PayerName is the raw source name and never
// changes; PrettyName is the operator's display override.
type Payer struct {
	PayerID    string  `gorm:"column:payer_id;primaryKey;size:50" json:"payer_id"`
	PayerName  string  `gorm:"column:payer_name;size:255;not null" json:"payer_name"`
	PrettyName *string `gorm:"column:pretty_name;size:255" json:"pretty_name"`
	GroupID    *string `gorm:"column:group_id;size:50;index" json:"group_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Payer) TableName() string { return "payers" }

// DisplayName prefers the pretty name when one is set.
func (p Payer) DisplayName() string {
	if p.PrettyName != nil && strings.TrimSpace(*p.PrettyName) != "" {
		return *p.PrettyName
	}
	return p.PayerName
}

// Group returns the assigned group id, or "" when unassigned.
func (p Payer) Group() string {
	if p.GroupID == nil {
		return ""
	}
	return *p.GroupID
}
