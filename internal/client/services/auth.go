// Package services contains application services for the spillway client.
// This file defines the authentication service: login, registration, e-mail
// confirmation and session housekeeping.
package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/spillway/internal/client/client"
	"github.com/dmitrijs2005/spillway/internal/client/models"
	"github.com/dmitrijs2005/spillway/internal/client/stores"
	"github.com/dmitrijs2005/spillway/internal/logging"
)

// Session is the part of session.Store the auth service drives.
type Session interface {
	SetToken(ctx context.Context, token string) error
	SetUsername(ctx context.Context, username string) error
	Clear(ctx context.Context) error
	Initialize(ctx context.Context) error
	IsAuthenticated() bool
	Username() string
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: exchange credentials for a token and install it in the session.
//   - Register: create an account; the backend may require e-mail confirmation.
//   - ConfirmEmail / ResendConfirmation: finish or restart confirmation.
//   - Logout: drop the session and the remembered username.
//   - Initialize: restore a persisted session on startup.
//
// Remote operations report through stores.Result and never return raw errors.
type AuthService interface {
	Login(ctx context.Context, username, password string) stores.Result[string]
	Register(ctx context.Context, username, email, password string) stores.Result[*models.RegistrationResponse]
	ConfirmEmail(ctx context.Context, token string) stores.Result[string]
	ResendConfirmation(ctx context.Context, email string) stores.Result[string]
	Logout(ctx context.Context) error
	Initialize(ctx context.Context) error
	CurrentUsername() string
	IsAuthenticated() bool
}

type authService struct {
	client  client.Client
	session Session
	log     logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and session.
func NewAuthService(client client.Client, session Session, log logging.Logger) AuthService {
	if log == nil {
		log = logging.NewNop()
	}
	return &authService{client: client, session: session, log: log}
}

// Login authenticates against the server, installs the returned token and
// remembers the username typed by the user.
func (a *authService) Login(ctx context.Context, username, password string) stores.Result[string] {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return stores.Result[string]{Error: "username and password are required", Err: ErrMissingCredentials}
	}

	resp, err := a.client.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		a.log.Warn(ctx, "login failed", "username", username, "error", err)
		return stores.Fail[string](err, "Login failed")
	}
	if resp.JWT == "" {
		return stores.Result[string]{Error: "Login failed: server returned no token", Err: ErrEmptyToken}
	}

	if err := a.session.SetToken(ctx, resp.JWT); err != nil {
		a.log.Error(ctx, "failed to install session token", "error", err)
		return stores.Result[string]{Error: "Login failed: " + err.Error(), Err: err}
	}
	if err := a.session.SetUsername(ctx, username); err != nil {
		a.log.Warn(ctx, "failed to persist username", "error", err)
	}

	a.log.Info(ctx, "logged in", "username", username)
	return stores.Result[string]{Success: true, Value: username}
}

// Register creates a new account on the server.
func (a *authService) Register(ctx context.Context, username, email, password string) stores.Result[*models.RegistrationResponse] {
	resp, err := a.client.Register(ctx, models.RegistrationRequest{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return stores.Fail[*models.RegistrationResponse](err, "Registration failed")
	}
	return stores.Result[*models.RegistrationResponse]{Success: true, Value: resp}
}

func (a *authService) ConfirmEmail(ctx context.Context, token string) stores.Result[string] {
	resp, err := a.client.ConfirmEmail(ctx, strings.TrimSpace(token))
	if err != nil {
		return stores.Fail[string](err, "Email confirmation failed")
	}
	return stores.Result[string]{Success: true, Value: resp.Message}
}

func (a *authService) ResendConfirmation(ctx context.Context, email string) stores.Result[string] {
	resp, err := a.client.ResendConfirmation(ctx, strings.TrimSpace(email))
	if err != nil {
		return stores.Fail[string](err, "Failed to resend confirmation email")
	}
	return stores.Result[string]{Success: true, Value: resp.Message}
}

// Logout clears the token and the remembered username.
func (a *authService) Logout(ctx context.Context) error {
	return a.session.Clear(ctx)
}

// Initialize restores a persisted session, discarding it when expired.
func (a *authService) Initialize(ctx context.Context) error {
	return a.session.Initialize(ctx)
}

func (a *authService) CurrentUsername() string {
	if !a.session.IsAuthenticated() {
		return ""
	}
	return a.session.Username()
}

func (a *authService) IsAuthenticated() bool {
	return a.session.IsAuthenticated()
}
