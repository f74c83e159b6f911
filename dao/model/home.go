package model

import "time"

// HomeContent is a singleton row holding the landing page copy.
type HomeContent struct {
	Base
	HeroTitle       string    `gorm:"type:varchar(512)" json:"hero_title"`
	HeroSubtitle    string    `gorm:"type:varchar(512)" json:"hero_subtitle"`
	HeroDescription string    `gorm:"type:text" json:"hero_description"`
	CTATitle        string    `gorm:"column:cta_title;type:varchar(512)" json:"cta_title"`
	CTASubtitle     string    `gorm:"column:cta_subtitle;type:varchar(512)" json:"cta_subtitle"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HomeContent) TableName() string { return TableHomeContent }

// The three satellite collections below are sorted by display_order on the
// client side only; the value is not unique.

type HeroImage struct {
	Base
	ImageURL     string `gorm:"column:image_url;type:varchar(1024);not null" json:"image_url"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
}

func (HeroImage) TableName() string { return TableHeroImages }

type HomeStat struct {
	Base
	Number       string `gorm:"type:varchar(64)" json:"number"`
	Label        string `gorm:"type:varchar(256)" json:"label"`
	Icon         string `gorm:"type:varchar(64)" json:"icon"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
}

func (HomeStat) TableName() string { return TableHomeStats }

type HomeServicePreview struct {
	Base
	Title        string `gorm:"type:varchar(256)" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	ImageURL     string `gorm:"column:image_url;type:varchar(1024)" json:"image_url"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
}

func (HomeServicePreview) TableName() string { return TableHomeServicesPreview }
