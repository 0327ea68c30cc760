package notes

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store persists notes and executes query plans.
type Store interface {
	Insert(ctx context.Context, n *Note) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Note, error)
	Find(ctx context.Context, p Plan) ([]*Note, error)
	Count(ctx context.Context, f Filter) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, patch NotePatch, now time.Time) (*Note, error)
	ToggleArchive(ctx context.Context, id primitive.ObjectID, now time.Time) (*Note, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*Note, error)
}
