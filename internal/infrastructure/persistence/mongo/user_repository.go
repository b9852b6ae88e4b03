package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/amirhosseinghanipour/pomotrack/internal/application/ports"
	"github.com/amirhosseinghanipour/pomotrack/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type googleTokensDoc struct {
	AccessToken  string     `bson:"accessToken,omitempty"`
	RefreshToken string     `bson:"refreshToken,omitempty"`
	ExpiresAt    *time.Time `bson:"tokenExpiresAt,omitempty"`
}

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	ImageURL  string             `bson:"image,omitempty"`
	Google    googleTokensDoc    `bson:",inline"`
	GoogleSub string             `bson:"googleSub,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		ImageURL:  d.ImageURL,
		Google:    domain.GoogleTokens(d.Google),
		GoogleSub: d.GoogleSub,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, userDoc{
		ID: id, Name: u.Name, Email: u.Email, ImageURL: u.ImageURL,
		Google: googleTokensDoc(u.Google), GoogleSub: u.GoogleSub,
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	})
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}
	return r.findOne(ctx, bson.M{"email": pattern})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return nil
	}
	set := bson.M{"name": u.Name, "image": u.ImageURL, "googleSub": u.GoogleSub, "updatedAt": u.UpdatedAt}
	_, err = r.coll.UpdateByID(ctx, oid, bson.M{"$set": set})
	return err
}

func (r *UserRepository) SetGoogleTokens(ctx context.Context, userID string, t domain.GoogleTokens) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}
	put := func(key, value string) {
		if value == "" {
			unset[key] = ""
			return
		}
		set[key] = value
	}
	put("accessToken", t.AccessToken)
	put("refreshToken", t.RefreshToken)
	if t.ExpiresAt != nil {
		set["tokenExpiresAt"] = *t.ExpiresAt
	} else {
		unset["tokenExpiresAt"] = ""
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	_, err = r.coll.UpdateByID(ctx, oid, update)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, f bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, f).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
