package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/sparkpath/pkg/model"
)

var ErrUserNotFound = goerr.New("user not found")

// Repository is the user record store. The matching pipeline only writes
// to it; reads exist for saved-career bookkeeping and operator commands.
type Repository interface {
	// CreateUser creates a fresh user record with a generated ID
	CreateUser(ctx context.Context) (*model.UserRecord, error)

	// GetUser retrieves a user record by ID
	GetUser(ctx context.Context, id model.UserID) (*model.UserRecord, error)

	// UpdateUser applies a partial-field upsert and touches updated_at
	UpdateUser(ctx context.Context, id model.UserID, fields map[string]any) error

	// AddSavedCareer appends a saved career to the user record
	AddSavedCareer(ctx context.Context, id model.UserID, title string, score float64) error

	// ListUsers returns the most recently created user records
	ListUsers(ctx context.Context, limit int) ([]*model.UserRecord, error)
}
