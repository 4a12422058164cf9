package models

import (
	"fmt"
	"strings"
	"unicode"
)

type Ingredient struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Macro       Macro  `json:"macro"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Validate checks the fields the create and edit forms require.
func (i Ingredient) Validate() error {
	if err := ValidateName(i.Name); err != nil {
		return err
	}
	if strings.TrimSpace(i.DisplayName) == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}
	return i.Macro.validate()
}

// ValidateName checks an entity name: it is the URL key, so it must be
// non-empty and contain no whitespace.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: name must not contain whitespace", ErrValidation)
	}
	return nil
}
