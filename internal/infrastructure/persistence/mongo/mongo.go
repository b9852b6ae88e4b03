// Package mongo implements the repositories on MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	tasksCollection      = "tasks"
	projectsCollection   = "projects"
	sessionsCollection   = "sessions"
	brandsCollection     = "brands"
	milestonesCollection = "milestones"
	usersCollection      = "users"
)

var errNoScope = errors.New("mongo: query without scope")

// Open connects and pings the cluster, returning the named database.
func Open(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, client.Database(database), nil
}

// EnsureIndexes creates the indexes bucket and scope queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	bucket := func(owner string) mongo.IndexModel {
		return mongo.IndexModel{Keys: bson.D{
			{Key: owner, Value: 1}, {Key: "projectId", Value: 1}, {Key: "parentTaskId", Value: 1},
			{Key: "completed", Value: 1}, {Key: "order", Value: 1},
		}}
	}
	specs := map[string][]mongo.IndexModel{
		tasksCollection: {bucket("userId"), bucket("sessionId"), {Keys: bson.D{{Key: "parentTaskId", Value: 1}}}},
		projectsCollection: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}}},
			{Keys: bson.D{{Key: "sessionId", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
		sessionsCollection: {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}}}},
		usersCollection:    {{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes %s: %w", name, err)
		}
	}
	return nil
}

// ownerDoc is embedded inline in every scoped document. Anonymous rows omit userId.
type ownerDoc struct {
	UserID      string `bson:"userId,omitempty"`
	SessionID   string `bson:"sessionId,omitempty"`
	IsTemporary bool   `bson:"isTemporary"`
}

func toOwnerDoc(o domain.Owner) ownerDoc {
	return ownerDoc{UserID: o.UserID, SessionID: o.SessionID, IsTemporary: o.IsTemporary}
}

func (o ownerDoc) toDomain() domain.Owner {
	return domain.Owner{UserID: o.UserID, SessionID: o.SessionID, IsTemporary: o.IsTemporary}
}

// scopeFilter returns the ownership predicate, extended with extra conditions.
func scopeFilter(scope domain.Scope, extra bson.M) (bson.M, error) {
	if scope.IsZero() {
		return nil, errNoScope
	}
	f := bson.M{}
	for k, v := range extra {
		f[k] = v
	}
	switch scope.Kind() {
	case domain.ScopeUser:
		f["userId"] = scope.ID()
	case domain.ScopeAnonymous:
		f["sessionId"] = scope.ID()
		f["userId"] = bson.M{"$exists": false}
	default:
		return nil, errNoScope
	}
	return f, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}
