package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rafikipets-api/internal/domain/vets"
)

type vetDoc struct {
	UserID          string    `bson:"user_id"`
	LicenseNumber   string    `bson:"license_number"`
	Specialty       string    `bson:"specialty"`
	Location        string    `bson:"location"`
	Phone           *string   `bson:"phone"`
	Bio             *string   `bson:"bio"`
	ExperienceYears int       `bson:"experience_years"`
	Available       bool      `bson:"available"`
	Rating          float64   `bson:"rating"`
	CreatedAt       time.Time `bson:"created_at"`
}

func (d vetDoc) toDomain() vets.Profile {
	return vets.Profile{
		UserID:          d.UserID,
		LicenseNumber:   d.LicenseNumber,
		Specialty:       d.Specialty,
		Location:        d.Location,
		Phone:           d.Phone,
		Bio:             d.Bio,
		ExperienceYears: d.ExperienceYears,
		Available:       d.Available,
		Rating:          d.Rating,
		CreatedAt:       d.CreatedAt,
	}
}

type VetsRepo struct {
	c *mongo.Collection
}

func NewVetsRepo(db *mongo.Database) *VetsRepo {
	return &VetsRepo{c: db.Collection(colVetProfiles)}
}

func (r *VetsRepo) Create(ctx context.Context, p vets.Profile) error {
	_, err := r.c.InsertOne(ctx, vetDoc{
		UserID:          p.UserID,
		LicenseNumber:   p.LicenseNumber,
		Specialty:       p.Specialty,
		Location:        p.Location,
		Phone:           p.Phone,
		Bio:             p.Bio,
		ExperienceYears: p.ExperienceYears,
		Available:       p.Available,
		Rating:          p.Rating,
		CreatedAt:       p.CreatedAt,
	})
	return mapErr(err)
}

func (r *VetsRepo) GetByUserID(ctx context.Context, userID string) (vets.Profile, error) {
	var d vetDoc
	if err := r.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&d); err != nil {
		return vets.Profile{}, mapErr(err)
	}
	return d.toDomain(), nil
}

func (r *VetsRepo) List(ctx context.Context, f vets.ListFilter) ([]vets.Profile, error) {
	filter := listFilter(f)

	cur, err := r.c.Find(ctx, filter, findAsc(limitOr(f.Limit, vets.MaxList)))
	if err != nil {
		return nil, err
	}
	var docs []vetDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]vets.Profile, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func listFilter(f vets.ListFilter) bson.M {
	filter := bson.M{"available": true}
	if f.Specialty != "" {
		filter["specialty"] = containsFold(f.Specialty)
	}
	if f.Location != "" {
		filter["location"] = containsFold(f.Location)
	}
	return filter
}

func limitOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
