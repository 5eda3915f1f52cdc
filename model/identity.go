package model

// IdentityCheckResult is the outcome of the mock Aadhaar format check
type IdentityCheckResult struct {
	Verified  bool   `json:"verified"`
	Name      string `json:"name"`
	AadhaarID string `json:"aadhaar_id"`
	Message   string `json:"message"`
}
