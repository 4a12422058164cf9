package models

import (
	"fmt"
	"strings"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

type LoginResponse struct {
	IdentityToken string `json:"identityToken"`
}

type EmailConfirmation struct {
	Email            string `json:"email"`
	ConfirmationCode string `json:"confirmationCode"`
}

func (c EmailConfirmation) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if strings.TrimSpace(c.ConfirmationCode) == "" {
		return fmt.Errorf("%w: confirmation code is required", ErrValidation)
	}
	return nil
}

// ImagePayload is the JSON body of the image upload endpoints.
type ImagePayload struct {
	Image string `json:"image"`
}
