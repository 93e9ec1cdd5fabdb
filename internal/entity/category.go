package entity

import (
	"time"
)

type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// EquipmentCount is computed on read, not stored.
	EquipmentCount int64 `json:"equipment_count"`
}
