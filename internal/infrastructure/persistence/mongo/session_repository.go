package mongo

import (
	"context"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type labelRefDoc struct {
	Title     string `bson:"title"`
	Milestone string `bson:"milestone,omitempty"`
}

type sessionTaskDoc struct {
	Task      string      `bson:"task"`
	Completed bool        `bson:"completed"`
	Brand     labelRefDoc `bson:"brand"`
}

// sessionDoc keeps userId as a plain string; legacy rows hold a Google subject there.
type sessionDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	UserID         string             `bson:"userId"`
	FocusTime      int                `bson:"focusTime"`
	BreakTime      int                `bson:"breakTime"`
	Tasks          []sessionTaskDoc   `bson:"tasks"`
	CurrentProject *labelRefDoc       `bson:"currentProject,omitempty"`
	Date           time.Time          `bson:"date"`
}

func (d *sessionDoc) toDomain() *domain.Session {
	s := &domain.Session{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		FocusTime: d.FocusTime,
		BreakTime: d.BreakTime,
		Tasks:     make([]domain.SessionTask, len(d.Tasks)),
		Date:      d.Date,
	}
	for i, t := range d.Tasks {
		s.Tasks[i] = domain.SessionTask{TaskID: t.Task, Completed: t.Completed, Brand: domain.LabelRef(t.Brand)}
	}
	if d.CurrentProject != nil {
		ref := domain.LabelRef(*d.CurrentProject)
		s.CurrentProject = &ref
	}
	return s
}

type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionsCollection)}
}

func (r *SessionRepository) Insert(ctx context.Context, s *domain.Session) error {
	id, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return err
	}
	doc := sessionDoc{
		ID: id, UserID: s.UserID, FocusTime: s.FocusTime, BreakTime: s.BreakTime,
		Tasks: make([]sessionTaskDoc, len(s.Tasks)), Date: s.Date,
	}
	for i, t := range s.Tasks {
		doc.Tasks[i] = sessionTaskDoc{Task: t.TaskID, Completed: t.Completed, Brand: labelRefDoc(t.Brand)}
	}
	if s.CurrentProject != nil {
		cp := labelRefDoc(*s.CurrentProject)
		doc.CurrentProject = &cp
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return err
}

func (r *SessionRepository) ListByUsers(ctx context.Context, userIDs []string) ([]*domain.Session, error) {
	f := bson.M{"userId": bson.M{"$in": userIDs}}
	return r.find(ctx, f, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

func (r *SessionRepository) ListInRange(ctx context.Context, userIDs []string, tr domain.TimeRange) ([]*domain.Session, error) {
	f := bson.M{
		"userId": bson.M{"$in": userIDs},
		"date":   bson.M{"$gte": tr.Start, "$lte": tr.End},
	}
	return r.find(ctx, f, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *SessionRepository) find(ctx context.Context, f bson.M, opts *options.FindOptions) ([]*domain.Session, error) {
	cur, err := r.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	var docs []sessionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domain.Session, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

var _ ports.SessionRepository = (*SessionRepository)(nil)
