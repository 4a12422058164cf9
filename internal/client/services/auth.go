package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
	"github.com/dmitrijs2005/macrobook/internal/client/session"
	"github.com/dmitrijs2005/macrobook/internal/client/tokenstore"
)

// AuthService signs users up and in and out.
//
// Every method validates its input locally first; on success it moves the
// navigator to the next view of the flow.
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) error
	Signup(ctx context.Context, creds models.Credentials) error
	ConfirmEmail(ctx context.Context, c models.EmailConfirmation) error
	Logout(ctx context.Context) error
	Identity() (tokenstore.Identity, error)
}

type authService struct {
	sess *session.Session
}

func NewAuthService(sess *session.Session) AuthService {
	return &authService{sess: sess}
}

// Login exchanges credentials for an identity token, stores it and opens
// the recipe list.
func (a *authService) Login(ctx context.Context, creds models.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	resp, err := a.sess.API.Login(ctx, creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := a.sess.SignIn(ctx, resp.IdentityToken); err != nil {
		return err
	}
	a.sess.Logger.Info(ctx, "logged in", "email", creds.Email)
	a.sess.Nav.Navigate(routes.MyRecipes)
	return nil
}

func (a *authService) Signup(ctx context.Context, creds models.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	if err := a.sess.API.Signup(ctx, creds); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	a.sess.Nav.Navigate(routes.ConfirmEmail)
	return nil
}

func (a *authService) ConfirmEmail(ctx context.Context, c models.EmailConfirmation) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := a.sess.API.ConfirmEmail(ctx, c); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	a.sess.Nav.Navigate(routes.Login)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sess.Logout(ctx)
}

func (a *authService) Identity() (tokenstore.Identity, error) {
	return a.sess.Tokens.Identity()
}
