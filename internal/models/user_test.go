package models_test

import (
	"testing"

	"socialite/backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestUserBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestUserBeforeCreate_GeneratesUUID(t *testing.T) {
	user := &models.User{Username: "alice"}

	assert.Empty(t, user.ID, "User ID should be empty before BeforeCreate")

	err := user.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID, "User ID must be populated after BeforeCreate")

	parsed, parseErr := uuid.Parse(user.ID)
	assert.NoError(t, parseErr, "User ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
}

// TestUserBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestUserBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	user := &models.User{ID: existingID, Username: "bob"}

	err := user.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

func TestUserIsActive(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.UserStatusActive, true},
		{models.UserStatusDisabled, false},
		{models.UserStatusAnonymous, false},
		{models.UserStatusDeleting, false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			u := models.User{Status: tt.status}
			assert.Equal(t, tt.want, u.IsActive())
		})
	}
}
