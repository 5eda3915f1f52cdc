package model

import "time"

// Student represents a degree holder identified by wallet and Aadhaar number.
// ID is caller-supplied and not unique; RowID is the storage key.
type Student struct {
	RowID         uint      `gorm:"primaryKey" json:"-"`
	ID            string    `gorm:"type:varchar(100);not null;index" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	WalletAddress string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"wallet_address"`
	AadhaarID     string    `gorm:"type:varchar(32);not null;uniqueIndex" json:"aadhaar_id"`
	CreatedAt     time.Time `json:"created_at"`
}
