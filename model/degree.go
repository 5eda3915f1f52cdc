package model

import (
	"encoding/json"
	"time"
)

// Degree is a minted degree record. Student and university display fields are
// copied at mint time and are not kept in sync afterwards.
type Degree struct {
	ID                   string    `gorm:"primaryKey;type:varchar(100)" json:"id"`
	DegreeID             int64     `gorm:"not null;index" json:"degree_id"` // NFT token id, not unique
	StudentID            string    `gorm:"type:varchar(100);not null;index" json:"student_id"`
	StudentName          string    `gorm:"type:varchar(255);not null" json:"student_name"`
	StudentWalletAddress string    `gorm:"type:varchar(255);not null;index" json:"student_wallet_address"`
	UniversityID         string    `gorm:"type:varchar(100);not null;index" json:"university_id"`
	UniversityName       string    `gorm:"type:varchar(255);not null" json:"university_name"`
	Course               string    `gorm:"type:varchar(255);not null" json:"course"`
	GraduationYear       int       `gorm:"not null" json:"graduation_year"`
	DegreeHash           string    `gorm:"type:text;not null" json:"degree_hash"`
	TxID                 *string   `gorm:"type:varchar(100)" json:"tx_id"` // Stacks transaction id, never set by the mock
	PdfData              *string   `gorm:"type:text" json:"pdf_data"`      // base64 PDF as received
	PdfPages             int       `json:"pdf_pages,omitempty"`
	PdfURL               string    `gorm:"type:varchar(512)" json:"pdf_url,omitempty"`
	QRCode               string    `gorm:"type:text" json:"qr_code"`
	Verified             bool      `gorm:"not null" json:"verified"`
	CreatedAt            time.Time `json:"created_at"`
}

// VerificationPayload is the display-ready data encoded into the degree QR code
type VerificationPayload struct {
	DegreeID        int64  `json:"degree_id"`
	StudentName     string `json:"student_name"`
	Course          string `json:"course"`
	University      string `json:"university"`
	GraduationYear  int    `json:"graduation_year"`
	VerificationURL string `json:"verification_url"`
}

// String renders the payload as the JSON text stored in Degree.QRCode
func (p VerificationPayload) String() string {
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// VerificationView is the public result of looking a degree up by token id
type VerificationView struct {
	DegreeID             int64     `json:"degree_id"`
	StudentName          string    `json:"student_name"`
	Course               string    `json:"course"`
	University           string    `json:"university"`
	GraduationYear       int       `json:"graduation_year"`
	IssueDate            time.Time `json:"issue_date"`
	Verified             bool      `json:"verified"`
	StudentWallet        string    `json:"student_wallet"`
	UniversityAuthorized bool      `json:"university_authorized"`
}
