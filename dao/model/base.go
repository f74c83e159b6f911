package model

import "time"

// Collection names as seen by the data gateway.
const (
	TableServices            = "services"
	TablePortfolioProjects   = "portfolio_projects"
	TablePortfolioCategories = "portfolio_categories"
	TableTeamMembers         = "team_members"
	TableReviews             = "reviews"
	TableReviewStats         = "reviews_stats"
	TablePackages            = "packages"
	TableOrders              = "orders"
	TableMessages            = "messages"
	TableContactInfo         = "contact_info"
	TableHomeContent         = "home_content"
	TableHeroImages          = "hero_images"
	TableHomeStats           = "home_stats"
	TableHomeServicesPreview = "home_services_preview"
	TableUsers               = "users"
)

// Base carries the columns every collection row has. The id is assigned by
// the store, created_at at insert.
type Base struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
}

func (b Base) RowID() int64 { return b.ID }

// Row is implemented by every model embedding Base.
type Row interface {
	RowID() int64
}
