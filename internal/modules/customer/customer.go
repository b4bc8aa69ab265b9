package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile is a row in the customer directory. Orders reference it weakly:
// a missing profile is normal (deleted or unlinked customer) and callers
// substitute placeholder text rather than failing.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository defines data access for customer profiles.
type Repository interface {
	// GetByIDs returns the profiles that exist for the given ids, keyed by
	// id. Absent ids are simply missing from the map, not an error.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*Profile, error)

	// List returns every profile, newest first.
	List(ctx context.Context) ([]*Profile, error)

	Count(ctx context.Context) (int, error)
}
