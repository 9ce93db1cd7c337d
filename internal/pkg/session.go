package pkg

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-widget/internal/apperror"
)

// GenerateNewSessionID - returns a random session id.
func GenerateNewSessionID() string {
	return uuid.NewString()
}

// ValidateSessionID - accepts only ids produced by GenerateNewSessionID.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperror.ErrInvalidSession, id)
	}

	return nil
}
