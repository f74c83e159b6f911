package model

import "gorm.io/datatypes"

type Service struct {
	Base
	Title        string                      `gorm:"type:varchar(256);not null;comment:服务名称" json:"title"`
	Description  string                      `gorm:"type:text;comment:服务描述" json:"description"`
	Icon         string                      `gorm:"type:varchar(64);comment:图标名" json:"icon"`
	ImageURL     string                      `gorm:"column:image_url;type:varchar(1024)" json:"image_url"`
	Features     datatypes.JSONSlice[string] `gorm:"type:jsonb;comment:服务特性列表" json:"features"`
	DisplayOrder int                         `gorm:"not null;default:0" json:"display_order"`
}

func (Service) TableName() string { return TableServices }
