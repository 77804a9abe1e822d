package model

// Principal is the authenticated identity and role for the duration of one
// request. It is reconstructed from a verified credential token and never
// persisted.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
