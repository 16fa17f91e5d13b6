package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPassengerAgeAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	p := Passenger{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 35, p.AgeAt(now))

	// Birthday tomorrow: still a year younger.
	p.BirthDate = time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 34, p.AgeAt(now))
}

func TestPassengerValidate(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	p := Passenger{BirthDate: now.AddDate(-30, 0, 0)}
	assert.NoError(t, p.Validate(now))

	// Under one year old.
	p.BirthDate = now.AddDate(0, -6, 0)
	assert.ErrorIs(t, p.Validate(now), ErrInvalidBirthDate)

	// Over ninety-nine.
	p.BirthDate = now.AddDate(-100, 0, 0)
	assert.ErrorIs(t, p.Validate(now), ErrInvalidBirthDate)

	// Boundary ages are allowed.
	p.BirthDate = now.AddDate(-1, 0, 0)
	assert.NoError(t, p.Validate(now))
	p.BirthDate = now.AddDate(-99, 0, 0)
	assert.NoError(t, p.Validate(now))
}
