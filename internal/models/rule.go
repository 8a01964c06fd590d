package models

import (
	"gorm.io/datatypes"
)

// RuleConditions is a flat conjunction of equality checks. A nil field
// imposes no constraint on the incoming event.
type RuleConditions struct {
	EventType *string `json:"event_type,omitempty"`
	Merged    *bool   `json:"merged,omitempty"`
}

// RuleActions are the notification outputs triggered when a rule matches.
type RuleActions struct {
	PostForum    bool `json:"post_forum"`
	PostAnnounce bool `json:"post_announce"`
}

type Rule struct {
	BaseModel

	ProjectID  uint                               `gorm:"not null;index"`
	Priority   int                                `gorm:"not null"` // higher = evaluated first
	Conditions datatypes.JSONType[RuleConditions] `gorm:"type:jsonb"`
	Actions    datatypes.JSONType[RuleActions]    `gorm:"type:jsonb"`

	// Relationships
	Project Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
