package model

import "time"

// User is an operator account, used only when the console owns its database.
type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email        string    `gorm:"uniqueIndex;type:varchar(256);not null;comment:登录邮箱" json:"email"`
	PasswordHash string    `gorm:"type:varchar(128);not null;comment:bcrypt 密码哈希" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return TableUsers }
