package model

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(30);not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"`
	Email     string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
