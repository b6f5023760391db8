// Package resettokens declares the repository contract for one-time password
// reset tokens. Only SHA-256 hashes of the tokens are stored.
package resettokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/mixmini/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking reset tokens.
type Repository interface {
	// Create stores tokenHash for userID with an expiry of now+validity.
	Create(ctx context.Context, userID string, tokenHash string, validity time.Duration) error

	// Find returns the token row or common.ErrorNotFound.
	Find(ctx context.Context, tokenHash string) (*models.ResetToken, error)

	// Delete removes a token. Deleting a non-existent token is not an error.
	Delete(ctx context.Context, tokenHash string) error

	// DeleteByUser removes every pending token of userID.
	DeleteByUser(ctx context.Context, userID string) error
}
