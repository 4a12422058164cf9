package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) readCredentials() (models.Credentials, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Email: email, Password: password}, nil
}

// Signup creates an account; the server mails a confirmation code.
func (a *App) Signup(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.Signup)
	creds, err := a.readCredentials()
	if err != nil {
		return err
	}
	if err := a.authService.Signup(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Account created. Check your e-mail for the confirmation code and run 'confirm'.")
	return nil
}

func (a *App) ConfirmEmail(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.ConfirmEmail)
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	code, err := getSimpleText(a.reader, "Enter confirmation code", a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ConfirmEmail(ctx, models.EmailConfirmation{Email: email, ConfirmationCode: code}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "E-mail confirmed. You can log in now.")
	return nil
}

// Login prompts for credentials and stores the identity token on success.
func (a *App) Login(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.Login)
	creds, err := a.readCredentials()
	if err != nil {
		return err
	}
	if err := a.authService.Login(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged in")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami prints what the stored token tells about the signed-in user.
func (a *App) Whoami() {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Not logged in")
		return
	}
	id, err := a.authService.Identity()
	if err != nil || id.Email == "" {
		fmt.Fprintln(a.out, "Logged in")
	} else {
		fmt.Fprintf(a.out, "Logged in as %s\n", id.Email)
	}
	if since, ok := a.sess.Tokens.Since(); ok {
		fmt.Fprintf(a.out, "Signed in since %s\n", since.Local().Format(time.DateTime))
	}
}
