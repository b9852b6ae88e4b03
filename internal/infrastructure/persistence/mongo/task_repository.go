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

type taskDoc struct {
	ID           primitive.ObjectID  `bson:"_id"`
	Title        string              `bson:"title"`
	ProjectID    primitive.ObjectID  `bson:"projectId"`
	ParentTaskID *primitive.ObjectID `bson:"parentTaskId"`
	Order        int                 `bson:"order"`
	Completed    bool                `bson:"completed"`
	Owner        ownerDoc            `bson:",inline"`
	CreatedAt    time.Time           `bson:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt"`
}

func (d *taskDoc) toDomain() *domain.Task {
	t := &domain.Task{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		ProjectID: d.ProjectID.Hex(),
		Order:     d.Order,
		Completed: d.Completed,
		Owner:     d.Owner.toDomain(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.ParentTaskID != nil {
		t.ParentTaskID = d.ParentTaskID.Hex()
	}
	return t
}

// parentValue maps an empty parent to null so top-level tasks share a bucket.
func parentValue(id string) interface{} {
	if id == "" {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return id
	}
	return oid
}

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

func (r *TaskRepository) Insert(ctx context.Context, t *domain.Task) error {
	id, err := primitive.ObjectIDFromHex(t.ID)
	if err != nil {
		return err
	}
	projectID, err := primitive.ObjectIDFromHex(t.ProjectID)
	if err != nil {
		return err
	}
	doc := taskDoc{
		ID: id, Title: t.Title, ProjectID: projectID, Order: t.Order, Completed: t.Completed,
		Owner: toOwnerDoc(t.Owner), CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
	if t.ParentTaskID != "" {
		parent, err := primitive.ObjectIDFromHex(t.ParentTaskID)
		if err != nil {
			return err
		}
		doc.ParentTaskID = &parent
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return err
}

func (r *TaskRepository) Get(ctx context.Context, scope domain.Scope, id string) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	f, err := scopeFilter(scope, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	var doc taskDoc
	if err := r.coll.FindOne(ctx, f).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) List(ctx context.Context, scope domain.Scope, filter ports.TaskFilter) ([]*domain.Task, error) {
	extra := bson.M{}
	if filter.ProjectID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.ProjectID)
		if err != nil {
			return []*domain.Task{}, nil
		}
		extra["projectId"] = oid
	}
	f, err := scopeFilter(scope, extra)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	cur, err := r.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Task, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

func (r *TaskRepository) MaxOrder(ctx context.Context, scope domain.Scope, b domain.Bucket) (int, bool, error) {
	projectID, err := primitive.ObjectIDFromHex(b.ProjectID)
	if err != nil {
		return 0, false, nil
	}
	f, err := scopeFilter(scope, bson.M{
		"projectId":    projectID,
		"parentTaskId": parentValue(b.ParentTaskID),
		"completed":    b.Completed,
	})
	if err != nil {
		return 0, false, err
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "order", Value: -1}}).SetProjection(bson.M{"order": 1})
	var doc struct {
		Order int `bson:"order"`
	}
	if err := r.coll.FindOne(ctx, f, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return doc.Order, true, nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, scope domain.Scope, id string, completed bool, order int) (*domain.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	f, err := scopeFilter(scope, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"completed": completed, "order": order, "updatedAt": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc taskDoc
	if err := r.coll.FindOneAndUpdate(ctx, f, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// ApplyOrder issues one unordered bulk write; counts survive partial failure.
func (r *TaskRepository) CloseGap(ctx context.Context, scope domain.Scope, b domain.Bucket, order int) error {
	projectID, err := primitive.ObjectIDFromHex(b.ProjectID)
	if err != nil {
		return nil
	}
	f, err := scopeFilter(scope, bson.M{
		"projectId":    projectID,
		"parentTaskId": parentValue(b.ParentTaskID),
		"completed":    b.Completed,
		"order":        bson.M{"$gt": order},
	})
	if err != nil {
		return err
	}
	_, err = r.coll.UpdateMany(ctx, f, bson.M{
		"$inc": bson.M{"order": -1},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	return err
}

func (r *TaskRepository) ApplyOrder(ctx context.Context, scope domain.Scope, updates []ports.OrderUpdate) (ports.BulkResult, error) {
	var res ports.BulkResult
	models := make([]mongo.WriteModel, 0, len(updates))
	now := time.Now()
	for _, u := range updates {
		oid, err := primitive.ObjectIDFromHex(u.ID)
		if err != nil {
			continue
		}
		f, err := scopeFilter(scope, bson.M{"_id": oid})
		if err != nil {
			return res, err
		}
		set := bson.M{"order": u.Order, "updatedAt": now}
		if u.ProjectID != "" {
			if pid, err := primitive.ObjectIDFromHex(u.ProjectID); err == nil {
				set["projectId"] = pid
			}
		}
		models = append(models, mongo.NewUpdateOneModel().SetFilter(f).SetUpdate(bson.M{"$set": set}))
	}
	if len(models) == 0 {
		return res, nil
	}
	out, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if out != nil {
		res.Matched = out.MatchedCount
		res.Modified = out.ModifiedCount
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) && bwe.WriteConcernError == nil && len(bwe.WriteErrors) > 0 && len(bwe.WriteErrors) < len(models) {
		return res, &ports.PartialWriteError{Failed: len(bwe.WriteErrors), Err: err}
	}
	return res, err
}

func (r *TaskRepository) ChildIDs(ctx context.Context, scope domain.Scope, parentIDs []string, limit int) ([]string, error) {
	f, err := scopeFilter(scope, bson.M{"parentTaskId": bson.M{"$in": objectIDs(parentIDs)}})
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID.Hex()
	}
	return out, nil
}

func (r *TaskRepository) DeleteMany(ctx context.Context, scope domain.Scope, ids []string) (int64, error) {
	f, err := scopeFilter(scope, bson.M{"_id": bson.M{"$in": objectIDs(ids)}})
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteMany(ctx, f)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, scope domain.Scope, projectID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return 0, nil
	}
	f, err := scopeFilter(scope, bson.M{"projectId": oid})
	if err != nil {
		return 0, err
	}
	res, err := r.coll.DeleteMany(ctx, f)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

var _ ports.TaskRepository = (*TaskRepository)(nil)
