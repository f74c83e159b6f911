package model

import "gorm.io/datatypes"

type Package struct {
	Base
	Title       string                      `gorm:"type:varchar(256);not null" json:"title"`
	Description string                      `gorm:"type:text" json:"description"`
	Price       string                      `gorm:"type:varchar(64)" json:"price"`
	Features    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"features"`
	// IsPopular is expected on at most one package by the public site; nothing enforces it.
	IsPopular bool `gorm:"not null;default:false" json:"is_popular"`
}

func (Package) TableName() string { return TablePackages }
