package model

import (
	"time"

	"gorm.io/datatypes"
)

// SocialLinks is keyed by the fixed platform set in SocialPlatforms.
type SocialLinks struct {
	Facebook  *string `json:"facebook,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	YouTube   *string `json:"youtube,omitempty"`
	GitHub    *string `json:"github,omitempty"`
}

// ContactInfo is a singleton; at most one row is expected.
type ContactInfo struct {
	Base
	Email         string                          `gorm:"type:varchar(256)" json:"email"`
	Phone         string                          `gorm:"type:varchar(64)" json:"phone"`
	Address       string                          `gorm:"type:varchar(512)" json:"address"`
	BusinessHours string                          `gorm:"type:varchar(256)" json:"business_hours"`
	SocialLinks   datatypes.JSONType[SocialLinks] `gorm:"type:jsonb" json:"social_links"`
	UpdatedAt     time.Time                       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContactInfo) TableName() string { return TableContactInfo }
