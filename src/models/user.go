package models

import (
	"time"

	"wayfinder/src/types"
)

type User struct {
	ID       string `gorm:"primarykey;type:varchar(255)" json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `gorm:"uniqueIndex;not null" json:"email,omitempty"`
	Password string `json:"-"`

	LastActive *time.Time `json:"last_active,omitempty"`

	Trips []Trip `gorm:"foreignKey:user_id" json:"trips,omitempty"`

	types.Timestamps
}
