package models

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	JWT string `json:"jwt"`
}

type RegistrationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegistrationResponse struct {
	Message                   string `json:"message"`
	RequiresEmailConfirmation bool   `json:"requiresEmailConfirmation"`
	UserID                    string `json:"userId,omitempty"`
}

type ResendConfirmationRequest struct {
	Email string `json:"email"`
}

// MessageResponse is the generic {message} body several endpoints return.
type MessageResponse struct {
	Message string `json:"message"`
}
