package model

import "time"

// Message is an inbound contact form submission.
type Message struct {
	Base
	Name       string    `gorm:"type:varchar(256)" json:"name"`
	Email      string    `gorm:"type:varchar(256)" json:"email"`
	Subject    string    `gorm:"type:varchar(512)" json:"subject"`
	Message    string    `gorm:"type:text" json:"message"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	ReceivedAt time.Time `gorm:"autoCreateTime;comment:接收时间" json:"received_at"`
}

func (Message) TableName() string { return TableMessages }
