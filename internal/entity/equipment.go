package entity

import (
	"time"
)

type EquipmentStatus string

const (
	EquipmentStatusAvailable EquipmentStatus = "available"
	EquipmentStatusBorrowed  EquipmentStatus = "borrowed"
)

func (s EquipmentStatus) Valid() bool {
	return s == EquipmentStatusAvailable || s == EquipmentStatusBorrowed
}

// Equipment.Status is a cached projection of "an ongoing booking exists for
// this item"; the lifecycle sweep resynchronizes it every tick and list/get
// reads derive it live.
type Equipment struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Model       string          `json:"model" db:"model"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	CategoryID  *int64          `json:"category_id,omitempty" db:"category_id"`
	Status      EquipmentStatus `json:"status" db:"status"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// EquipmentFilter narrows equipment listings.
type EquipmentFilter struct {
	Category string
	Status   EquipmentStatus
	Search   string
	Skip     int
	Limit    int
}
