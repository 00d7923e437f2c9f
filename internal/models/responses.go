package models

// RootResponse is the banner served on the root path
type RootResponse struct {
	Message     string `json:"message" example:"Welcome to the pulse API"`
	Version     string `json:"version" example:"1.0.0"`
	Environment string `json:"environment" example:"production"`
	Docs        string `json:"docs" example:"/swagger/index.html"`
}

// LoginResponse represents the response to a successful login
type LoginResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIs..."`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"1800"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
