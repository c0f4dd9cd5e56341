package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/spillway/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, e-mail and password (twice) and creates
// an account. The backend may ask for e-mail confirmation before login.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter e-mail", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	again, err := getPassword("Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(again)

	if !bytes.Equal(password, again) {
		return errors.New("passwords do not match")
	}

	r := a.Auth.Register(ctx, username, email, string(password))
	if err := check(r); err != nil {
		return err
	}

	msg := "Account created"
	if r.Value != nil && r.Value.Message != "" {
		msg = r.Value.Message
	}
	success(a.out, "%s", msg)
	if r.Value != nil && r.Value.RequiresEmailConfirmation {
		warn(a.out, "Check %s for a confirmation link, then run 'confirm <token>'", email)
	}
	return nil
}

// Login prompts for the password and, when username is empty, the username.
func (a *App) Login(ctx context.Context, username string) error {
	if username == "" {
		var err error
		if username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	return a.login(ctx, username, string(password))
}

func (a *App) login(ctx context.Context, username, password string) error {
	r := a.Auth.Login(ctx, username, password)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "Logged in as %s", a.Auth.CurrentUsername())
	if a.List != nil {
		a.List.OnAuthChanged(ctx, true)
	}
	return nil
}

// Logout drops the session and every cached collection.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Auth.Logout(ctx); err != nil {
		return err
	}
	a.Videos.StopPolling()
	a.Videos.Reset()
	a.Playlists.Reset()
	a.Sharing.Reset()
	a.Search.Reset()
	if a.List != nil {
		a.List.OnAuthChanged(ctx, false)
	}
	success(a.out, "Logged out")
	return nil
}

func (a *App) Whoami(context.Context) error {
	if !a.Auth.IsAuthenticated() {
		fmt.Fprintln(a.out, dimStyle.Render("not logged in"))
		return nil
	}
	fmt.Fprintln(a.out, a.Auth.CurrentUsername())
	return nil
}

func (a *App) Confirm(ctx context.Context, token string) error {
	if token == "" {
		var err error
		if token, err = getSimpleText(a.reader, "Enter confirmation token", a.out); err != nil {
			return err
		}
	}
	r := a.Auth.ConfirmEmail(ctx, token)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "%s", messageOr(r.Value, "E-mail confirmed, you can log in now"))
	return nil
}

func (a *App) Resend(ctx context.Context, email string) error {
	if email == "" {
		var err error
		if email, err = getSimpleText(a.reader, "Enter e-mail", a.out); err != nil {
			return err
		}
	}
	r := a.Auth.ResendConfirmation(ctx, email)
	if err := check(r); err != nil {
		return err
	}
	success(a.out, "%s", messageOr(r.Value, "Confirmation e-mail sent"))
	return nil
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
