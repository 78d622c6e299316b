package cli

import (
	"context"
	"errors"

	"github.com/agentfree/sessionkit/internal/client/models"
	"github.com/agentfree/sessionkit/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for a username and password and starts a session.
// Rejected credentials are reported to the user and are not an error.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	res, err := a.session.Login(ctx, username, string(password))
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			a.printf("Login failed: %s\n", err)
			return nil
		}
		a.logger.Error(ctx, "login", "error", err)
		return err
	}

	a.printf("Welcome, %s!\n", res.User.FullName())
	return nil
}

// Signup prompts for the new account's fields and logs in with them.
func (a *App) Signup(ctx context.Context) error {
	var req models.SignupRequest
	var err error

	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter username", &req.Username},
		{"Enter email", &req.Email},
		{"Enter first name", &req.FirstName},
		{"Enter last name", &req.LastName},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.text, a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	req.Password = string(password)

	res, err := a.session.Signup(ctx, req)
	if err != nil {
		if errors.Is(err, common.ErrUsernameTaken) {
			a.printf("Signup failed: %s\n", err)
			return nil
		}
		a.logger.Error(ctx, "signup", "error", err)
		return err
	}

	a.printf("Account created. Welcome, %s!\n", res.User.FullName())
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout", "error", err)
		return err
	}
	a.printf("Logged out\n")
	return nil
}

// WhoAmI prints the current user, rehydrating it from storage if needed.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.session.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if u == nil {
		a.printf("Not logged in\n")
		return nil
	}

	a.printf("%s (%s) <%s>, role %s, id %s\n", u.FullName(), u.Username, u.Email, u.Role, u.ID)
	if u.LicenseNumber != "" {
		a.printf("License: %s\n", u.LicenseNumber)
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	token, err := a.session.RefreshToken(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoToken) {
			a.printf("Refresh failed: %s\n", err)
			return nil
		}
		return err
	}
	a.printf("New token: %s\n", token)
	return nil
}

func (a *App) ResetPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	msg, err := a.session.ResetPassword(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrEmailNotFound) {
			a.printf("Reset failed: %s\n", err)
			return nil
		}
		return err
	}
	a.printf("%s\n", msg)
	return nil
}

// Status prints whether a session is active without touching storage.
func (a *App) Status(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		a.printf("Status: signed out (store: %s)\n", a.config.StoreBackend)
		return nil
	}

	u, err := a.session.User(ctx)
	if err != nil {
		return err
	}
	a.printf("Status: signed in as %s (store: %s)\n", u.Username, a.config.StoreBackend)
	return nil
}

// ShowToken prints the stored token and the user id it carries.
func (a *App) ShowToken(ctx context.Context) error {
	token, err := a.session.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		a.printf("No token\n")
		return nil
	}

	a.printf("Token: %s\n", token)
	if id, err := a.issuer.UserID(token); err == nil {
		a.printf("User ID: %s\n", id)
	} else {
		a.printf("Token not readable: %s\n", err)
	}
	return nil
}

// Endpoints lists the backend auth routes the session service stands in for.
func (a *App) Endpoints(context.Context) error {
	for _, e := range common.AuthEndpoints {
		a.printf("%-15s %s\n", e.Name, e.Path)
	}
	return nil
}
