package dto

// AdminLoginRequest describes the admin login payload.
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// ApproveOrderRequest describes the approval payload.
type ApproveOrderRequest struct {
	MarkAsProof bool `json:"mark_as_proof"`
}
