// Package api holds the HTTP payload types shared across features and the helpers
// handlers use to bind parameters and render errors.
package api

import "time"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges an action that has no resource to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public view of an account. The password hash is never rendered.
type UserResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	CompanyName string    `json:"companyName,omitempty"`
	Position    string    `json:"position,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
