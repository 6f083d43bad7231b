package dto

// LoginReq represents the request body for the /auth/login endpoint.
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenRes is returned by login and refresh.
type TokenRes struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SessionRes describes the authenticated caller.
type SessionRes struct {
	UserID          string `json:"userId"`
	Username        string `json:"username"`
	IsAuthenticated bool   `json:"isAuthenticated"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
