package dto

// SessionRequest is the identity payload posted to /jwt.
type SessionRequest struct {
	Email string `json:"email"`
}

// SuccessResponse acknowledges session changes.
type SuccessResponse struct {
	Success bool `json:"success"`
}
