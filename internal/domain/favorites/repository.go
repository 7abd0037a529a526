package favorites

import "context"

// Repository is the durable authority for favorites. The in-memory store in
// the usecase layer applies toggles optimistically and reconciles against
// this interface; a write failure triggers a rollback there.
type Repository interface {
	ListByUser(ctx context.Context, userID string) (Set, error)
	Add(ctx context.Context, userID string, kind Kind, id string) error
	Remove(ctx context.Context, userID string, kind Kind, id string) error
}
