package model

type TeamMember struct {
	Base
	Name         string `gorm:"type:varchar(256);not null" json:"name"`
	Designation  string `gorm:"type:varchar(256)" json:"designation"`
	ImageURL     string `gorm:"column:image_url;type:varchar(1024)" json:"image_url"`
	Bio          string `gorm:"type:text" json:"bio"`
	Specialties  string `gorm:"type:varchar(512)" json:"specialties"`
	SocialURLA   string `gorm:"column:social_url_a;type:varchar(1024)" json:"social_url_a"`
	SocialURLB   string `gorm:"column:social_url_b;type:varchar(1024)" json:"social_url_b"`
	SocialURLC   string `gorm:"column:social_url_c;type:varchar(1024)" json:"social_url_c"`
	DisplayOrder int    `gorm:"not null;default:0" json:"display_order"`
}

func (TeamMember) TableName() string { return TableTeamMembers }
