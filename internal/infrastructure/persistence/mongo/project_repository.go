package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type projectDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	HeaderColor string             `bson:"headerColor"`
	Owner       ownerDoc           `bson:",inline"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *projectDoc) toDomain() *domain.Project {
	return &domain.Project{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		HeaderColor: domain.HeaderColor(d.HeaderColor),
		Owner:       d.Owner.toDomain(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

func (r *ProjectRepository) Insert(ctx context.Context, p *domain.Project) error {
	id, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, projectDoc{
		ID: id, Name: p.Name, HeaderColor: string(p.HeaderColor),
		Owner: toOwnerDoc(p.Owner), CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	})
	return err
}

func (r *ProjectRepository) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	f, err := scopeFilter(scope, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	var doc projectDoc
	if err := r.coll.FindOne(ctx, f).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) List(ctx context.Context, scope domain.Scope) ([]*domain.Project, error) {
	f, err := scopeFilter(scope, nil)
	if err != nil {
		return nil, err
	}
	cur, err := r.coll.Find(ctx, f, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Project, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *ProjectRepository) UpdateHeaderColor(ctx context.Context, scope domain.Scope, id string, color domain.HeaderColor) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	f, err := scopeFilter(scope, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"headerColor": string(color), "updatedAt": time.Now()}}
	var doc projectDoc
	err = r.coll.FindOneAndUpdate(ctx, f, update, options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) Delete(ctx context.Context, scope domain.Scope, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	f, err := scopeFilter(scope, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, f)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

var _ ports.ProjectRepository = (*ProjectRepository)(nil)
