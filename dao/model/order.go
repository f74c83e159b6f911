package model

// Order rows are written by the public checkout flow. The console only reads
// them, changes Status and deletes them.
type Order struct {
	Base
	OrderID      string      `gorm:"column:order_id;type:varchar(64);index" json:"order_id"`
	Name         string      `gorm:"type:varchar(256)" json:"name"`
	Email        string      `gorm:"type:varchar(256)" json:"email"`
	Phone        string      `gorm:"type:varchar(64)" json:"phone"`
	Company      string      `gorm:"type:varchar(256)" json:"company"`
	Message      string      `gorm:"type:text" json:"message"`
	Budget       string      `gorm:"type:varchar(64)" json:"budget"`
	Timeline     string      `gorm:"type:varchar(64)" json:"timeline"`
	PackageName  string      `gorm:"type:varchar(256)" json:"package_name"`
	PackagePrice string      `gorm:"type:varchar(64)" json:"package_price"`
	Status       OrderStatus `gorm:"type:varchar(32);not null;default:pending;comment:订单状态 (pending, in_progress, completed, cancelled)" json:"status"`
}

func (Order) TableName() string { return TableOrders }
