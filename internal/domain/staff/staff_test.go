//go:build unit
// +build unit

package staff

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaff_Validate(t *testing.T) {
	s := &Staff{
		ID:           uuid.NewString(),
		CompanyID:    uuid.NewString(),
		Username:     "admin",
		Email:        "admin@example.com",
		FirstName:    "Ada",
		LastName:     "Admin",
		PasswordHash: "$2a$10$hash",
		Status:       StatusActive,
		DateAdded:    time.Now(),
	}
	require.NoError(t, s.Validate())
	assert.True(t, s.CanLogIn())

	s.Status = StatusInactive
	assert.False(t, s.CanLogIn())

	s.Email = "nope"
	assert.Error(t, s.Validate())
}

func TestInput_Validate(t *testing.T) {
	in := &Input{Username: "ops", Email: "ops@example.com", FirstName: "O", LastName: "P", Password: "short"}
	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Password")

	in.Password = "long-enough"
	assert.NoError(t, in.Validate())
}
