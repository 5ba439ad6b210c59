package registry

import "time"

// PayerGroup is the persisted row of a taxonomy node. Roots have no ParentID.
type PayerGroup struct {
	GroupID   string  `gorm:"column:group_id;primaryKey;size:50" json:"group_id"`
	GroupName string  `gorm:"column:group_name;size:255;not null;uniqueIndex" json:"group_name"`
	ParentID  *string `gorm:"column:parent_id;size:50;index" json:"parent_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (PayerGroup) TableName() string { return "payer_groups" }

// Group is one node of the group forest as served to clients.
type Group struct {
	GroupID   string  `json:"group_id"`
	GroupName string  `json:"group_name"`
	Children  []Group `json:"children"`
}

// FlattenedGroup is the selection projection of a Group node.
type FlattenedGroup struct {
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
}
