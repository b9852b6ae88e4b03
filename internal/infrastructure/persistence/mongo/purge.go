package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func purgeTemporary(ctx context.Context, coll *mongo.Collection, before time.Time) (int64, error) {
	res, err := coll.DeleteMany(ctx, bson.M{
		"isTemporary": true,
		"userId":      bson.M{"$exists": false},
		"createdAt":   bson.M{"$lt": before},
	})
	if err != nil {
		return 0, fmt.Errorf("purge %s: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func (r *TaskRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	return purgeTemporary(ctx, r.coll, before)
}

func (r *ProjectRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	return purgeTemporary(ctx, r.coll, before)
}

// PurgeTemporary sweeps both label collections.
func (r *LabelRepository) PurgeTemporary(ctx context.Context, before time.Time) (int64, error) {
	brands, err := purgeTemporary(ctx, r.brands, before)
	if err != nil {
		return 0, err
	}
	milestones, err := purgeTemporary(ctx, r.milestones, before)
	return brands + milestones, err
}
