package contracts

import (
	"context"

	"github.com/PraneetTulluri/Stats-Tracker/pkg/models"
)

// ChangePublisher announces collection changes to subscribers
type ChangePublisher interface {
	Publish(ctx context.Context, event models.ChangeEvent) error
}

// SnapshotSource produces the full current contents of a user's collection
type SnapshotSource interface {
	Snapshot(ctx context.Context, userID, collection string) (interface{}, error)
}
