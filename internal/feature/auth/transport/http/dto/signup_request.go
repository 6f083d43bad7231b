// Package dto defines data transfer objects for the auth feature's HTTP transport layer.
package dto

// SignupReq represents the request body for the /auth/signup endpoint.
// It uses Gin's binding tags for validation (required fields, password length).
type SignupReq struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserRes is returned after a successful signup.
type UserRes struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
