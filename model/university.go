package model

import "time"

// University represents a degree-issuing institution registered on the chain.
// ID is caller-supplied and not unique; RowID is the storage key.
type University struct {
	RowID            uint      `gorm:"primaryKey" json:"-"`
	ID               string    `gorm:"type:varchar(100);not null;index" json:"id"`
	Name             string    `gorm:"type:varchar(255);not null" json:"name"`
	PrincipalAddress string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"principal_address"` // Stacks principal, dedup key
	Authorized       bool      `gorm:"not null" json:"authorized"`
	CreatedAt        time.Time `json:"created_at"`
}
