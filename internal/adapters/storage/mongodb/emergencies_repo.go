package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rafikipets-api/internal/domain/emergencies"
)

type emergencyDoc struct {
	RequestID     string    `bson:"request_id"`
	PetOwnerID    string    `bson:"pet_owner_id"`
	Location      string    `bson:"location"`
	Description   string    `bson:"description"`
	PetName       string    `bson:"pet_name"`
	PetType       string    `bson:"pet_type"`
	Status        string    `bson:"status"`
	AssignedVetID *string   `bson:"assigned_vet_id"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (d emergencyDoc) toDomain() emergencies.Request {
	return emergencies.Request{
		ID:            d.RequestID,
		PetOwnerID:    d.PetOwnerID,
		Location:      d.Location,
		Description:   d.Description,
		PetName:       d.PetName,
		PetType:       d.PetType,
		Status:        emergencies.Status(d.Status),
		AssignedVetID: d.AssignedVetID,
		CreatedAt:     d.CreatedAt,
	}
}

type EmergenciesRepo struct {
	c *mongo.Collection
}

func NewEmergenciesRepo(db *mongo.Database) *EmergenciesRepo {
	return &EmergenciesRepo{c: db.Collection(colEmergencies)}
}

func (r *EmergenciesRepo) Create(ctx context.Context, e emergencies.Request) error {
	_, err := r.c.InsertOne(ctx, emergencyDoc{
		RequestID:     e.ID,
		PetOwnerID:    e.PetOwnerID,
		Location:      e.Location,
		Description:   e.Description,
		PetName:       e.PetName,
		PetType:       e.PetType,
		Status:        string(e.Status),
		AssignedVetID: e.AssignedVetID,
		CreatedAt:     e.CreatedAt,
	})
	return mapErr(err)
}

func (r *EmergenciesRepo) GetByID(ctx context.Context, id string) (emergencies.Request, error) {
	var d emergencyDoc
	if err := r.c.FindOne(ctx, bson.M{"request_id": id}).Decode(&d); err != nil {
		return emergencies.Request{}, mapErr(err)
	}
	return d.toDomain(), nil
}

func (r *EmergenciesRepo) List(ctx context.Context, f emergencies.ListFilter) ([]emergencies.Request, error) {
	filter := bson.M{}
	if f.PetOwnerID != "" {
		filter["pet_owner_id"] = f.PetOwnerID
	}
	if f.VisibleToVet != "" {
		filter["$or"] = bson.A{
			bson.M{"status": string(emergencies.StatusActive)},
			bson.M{"assigned_vet_id": f.VisibleToVet},
		}
	}

	cur, err := r.c.Find(ctx, filter, findAsc(limitOr(f.Limit, emergencies.MaxList)))
	if err != nil {
		return nil, err
	}
	var docs []emergencyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]emergencies.Request, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *EmergenciesRepo) Assign(ctx context.Context, id, vetID string) error {
	return expectMatched(r.c.UpdateOne(ctx,
		bson.M{"request_id": id},
		bson.M{"$set": bson.M{"status": string(emergencies.StatusAccepted), "assigned_vet_id": vetID}},
	))
}
