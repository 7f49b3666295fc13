package models

import "time"

type Admin struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Username  string    `json:"username" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"`
	StageKey  string    `json:"-" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminSummary is the part of an Admin exposed to clients.
type AdminSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func (a *Admin) Summary() AdminSummary {
	return AdminSummary{ID: a.ID, Username: a.Username}
}
