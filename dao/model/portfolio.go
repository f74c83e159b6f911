package model

import "gorm.io/datatypes"

type PortfolioCategory struct {
	Base
	Name string `gorm:"type:varchar(128);not null;comment:分类名" json:"name"`
}

func (PortfolioCategory) TableName() string { return TablePortfolioCategories }

type PortfolioProject struct {
	Base
	Title         string                      `gorm:"type:varchar(256);not null" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	ImageURL      string                      `gorm:"column:image_url;type:varchar(1024)" json:"image_url"`
	CategoryID    int64                       `gorm:"index;comment:所属分类" json:"category_id"`
	ProjectImages datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"project_images"`
	URL           string                      `gorm:"column:url;type:varchar(1024)" json:"url"`
	GithubURL     string                      `gorm:"column:github_url;type:varchar(1024)" json:"github_url"`
	Technologies  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"technologies"`
	AspectRatio   string                      `gorm:"type:varchar(32)" json:"aspect_ratio"`

	// Category is attached at read time from the categories collection.
	Category *PortfolioCategory `gorm:"-" json:"portfolio_categories,omitempty"`
}

func (PortfolioProject) TableName() string { return TablePortfolioProjects }
