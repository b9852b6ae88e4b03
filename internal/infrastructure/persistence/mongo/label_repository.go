package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type labelDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Owner     ownerDoc           `bson:",inline"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// LabelRepository stores brands and milestones in separate collections.
type LabelRepository struct {
	brands     *mongo.Collection
	milestones *mongo.Collection
}

func NewLabelRepository(db *mongo.Database) *LabelRepository {
	return &LabelRepository{
		brands:     db.Collection(brandsCollection),
		milestones: db.Collection(milestonesCollection),
	}
}

func (r *LabelRepository) collection(kind domain.LabelKind) (*mongo.Collection, error) {
	switch kind {
	case domain.LabelBrand:
		return r.brands, nil
	case domain.LabelMilestone:
		return r.milestones, nil
	}
	return nil, fmt.Errorf("mongo: unknown label kind %q", kind)
}

func (r *LabelRepository) Insert(ctx context.Context, l *domain.Label) error {
	coll, err := r.collection(l.Kind)
	if err != nil {
		return err
	}
	id, err := primitive.ObjectIDFromHex(l.ID)
	if err != nil {
		return err
	}
	_, err = coll.InsertOne(ctx, labelDoc{ID: id, Name: l.Name, Owner: toOwnerDoc(l.Owner), CreatedAt: l.CreatedAt})
	return err
}

func (r *LabelRepository) List(ctx context.Context, scope domain.Scope, kind domain.LabelKind) ([]*domain.Label, error) {
	coll, err := r.collection(kind)
	if err != nil {
		return nil, err
	}
	f, err := scopeFilter(scope, nil)
	if err != nil {
		return nil, err
	}
	cur, err := coll.Find(ctx, f, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []labelDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Label, len(docs))
	for i, d := range docs {
		out[i] = &domain.Label{ID: d.ID.Hex(), Kind: kind, Name: d.Name, Owner: d.Owner.toDomain(), CreatedAt: d.CreatedAt}
	}
	return out, nil
}

var _ ports.LabelRepository = (*LabelRepository)(nil)
