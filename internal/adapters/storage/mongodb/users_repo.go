package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rafikipets-api/internal/domain/users"
)

type userDoc struct {
	UserID    string    `bson:"user_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password,omitempty"`
	Name      string    `bson:"name"`
	Picture   *string   `bson:"picture"`
	UserType  string    `bson:"user_type"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d userDoc) toDomain() users.User {
	return users.User{
		ID:           d.UserID,
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		Picture:      d.Picture,
		Role:         users.Role(d.UserType),
		CreatedAt:    d.CreatedAt,
	}
}

type UsersRepo struct {
	c *mongo.Collection
}

func NewUsersRepo(db *mongo.Database) *UsersRepo {
	return &UsersRepo{c: db.Collection(colUsers)}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.c.InsertOne(ctx, userDoc{
		UserID:    u.ID,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Name:      u.Name,
		Picture:   u.Picture,
		UserType:  string(u.Role),
		CreatedAt: u.CreatedAt,
	})
	return mapErr(err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.findOne(ctx, bson.M{"user_id": id})
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id, name string, picture *string) error {
	return expectMatched(r.c.UpdateOne(ctx,
		bson.M{"user_id": id},
		bson.M{"$set": bson.M{"name": name, "picture": picture}},
	))
}

func (r *UsersRepo) UpdateRole(ctx context.Context, id string, role users.Role) error {
	return expectMatched(r.c.UpdateOne(ctx,
		bson.M{"user_id": id},
		bson.M{"$set": bson.M{"user_type": string(role)}},
	))
}

func (r *UsersRepo) findOne(ctx context.Context, filter bson.M) (users.User, error) {
	var d userDoc
	if err := r.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return users.User{}, mapErr(err)
	}
	return d.toDomain(), nil
}
