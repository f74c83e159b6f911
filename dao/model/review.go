package model

type Review struct {
	Base
	Name        string `gorm:"type:varchar(256);not null" json:"name"`
	Designation string `gorm:"type:varchar(256)" json:"designation"`
	Company     string `gorm:"type:varchar(256)" json:"company"`
	CompanyURL  string `gorm:"column:company_url;type:varchar(1024)" json:"company_url"`
	Project     string `gorm:"type:varchar(256)" json:"project"`
	Rating      int    `gorm:"not null;default:5;comment:评分 1-5" json:"rating"`
	Review      string `gorm:"type:text" json:"review"`
	ImageURL    string `gorm:"column:image_url;type:varchar(1024)" json:"image_url"`
	// Approved gates public visibility on the website.
	Approved bool `gorm:"not null;default:false" json:"approved"`
}

func (Review) TableName() string { return TableReviews }

// ReviewStat uses the column "order" where its siblings use "display_order".
// Existing stores depend on the name, keep it.
type ReviewStat struct {
	Base
	Number string `gorm:"type:varchar(64)" json:"number"`
	Label  string `gorm:"type:varchar(256)" json:"label"`
	Order  int    `gorm:"column:order;not null;default:0" json:"order"`
}

func (ReviewStat) TableName() string { return TableReviewStats }

const (
	RatingMin = 1
	RatingMax = 5
)
