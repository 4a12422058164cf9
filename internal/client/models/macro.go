package models

import (
	"fmt"
	"math"
)

// Macro holds the aggregate nutrition figures of an ingredient or recipe.
type Macro struct {
	Calories      float64 `json:"calories"`
	Fats          float64 `json:"fats"`
	Proteins      float64 `json:"proteins"`
	Carbohydrates float64 `json:"carbohydrates"`
}

func (m Macro) validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", m.Calories},
		{"fats", m.Fats},
		{"proteins", m.Proteins},
		{"carbohydrates", m.Carbohydrates},
	}
	for _, f := range fields {
		if err := checkQuantity(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// checkQuantity accepts finite non-negative numbers only.
func checkQuantity(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrValidation, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrValidation, name)
	}
	return nil
}
