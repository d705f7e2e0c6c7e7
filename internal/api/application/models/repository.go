package models

import (
	"context"
)

// ListOptions controls the admin listing query.
type ListOptions struct {
	// Limit caps the number of records returned; <= 0 means the default cap.
	Limit int64
	// Offset skips records, enabling offset pagination over the
	// lastUpdatedAt-descending order.
	Offset int64
}

// ApplicationRepository is the storage boundary for applications. It is
// injected into the service layer so tests can substitute an in-memory
// implementation.
type ApplicationRepository interface {
	// Get returns the application for userId, or a not-found error.
	Get(ctx context.Context, userID string) (*Application, error)

	// Create inserts a fresh application document.
	Create(ctx context.Context, app *Application) (*Application, error)

	// Update applies a partial field update (set) and removes the listed
	// fields (unset), atomically on the single document, then returns
	// the updated record.
	Update(ctx context.Context, userID string, set map[string]interface{}, unset []string) (*Application, error)

	// Append atomically appends value to the named array field. Used for
	// the append-only reviews and notes collections so concurrent admins
	// never overwrite each other.
	Append(ctx context.Context, userID string, field string, value interface{}, set map[string]interface{}) (*Application, error)

	// ListAll returns applications ordered by lastUpdatedAt descending.
	ListAll(ctx context.Context, opts ListOptions) ([]Application, error)
}
