package models

import (
	"wayfinder/src/types"

	"github.com/google/uuid"
)

type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	TripID          string                  `gorm:"index;not null" json:"trip_id"`
	Amount          float64                 `json:"amount"`
	Currency        string                  `json:"currency"`
	PaymentIntentId *string                 `json:"-"`
	Status          types.TransactionStatus `gorm:"default:'pending'" json:"status"`
	Metadata        *types.JSONB            `gorm:"type:jsonb" json:"metadata,omitempty"`

	Trip *Trip `gorm:"foreignKey:trip_id" json:"-"`

	types.Timestamps
}
