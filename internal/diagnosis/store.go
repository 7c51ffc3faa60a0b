package diagnosis

import "context"

// Store persists diagnosis records.
type Store interface {
	// Create inserts one record. Records are immutable once written.
	Create(ctx context.Context, d *Diagnosis) error
	// ListByUser returns the records owned by userID, most recent first.
	// The ownership filter is part of the query itself; rows belonging
	// to other users are never materialized.
	ListByUser(ctx context.Context, userID string) ([]Diagnosis, error)
}
