package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rafikipets-api/internal/domain/appointments"
)

type appointmentDoc struct {
	AppointmentID   string    `bson:"appointment_id"`
	PetOwnerID      string    `bson:"pet_owner_id"`
	VetID           string    `bson:"vet_id"`
	AppointmentDate string    `bson:"appointment_date"`
	AppointmentTime string    `bson:"appointment_time"`
	PetName         string    `bson:"pet_name"`
	PetType         string    `bson:"pet_type"`
	Reason          string    `bson:"reason"`
	Status          string    `bson:"status"`
	Amount          float64   `bson:"amount"`
	PaymentStatus   string    `bson:"payment_status"`
	CreatedAt       time.Time `bson:"created_at"`
}

func (d appointmentDoc) toDomain() appointments.Appointment {
	return appointments.Appointment{
		ID:            d.AppointmentID,
		PetOwnerID:    d.PetOwnerID,
		VetID:         d.VetID,
		Date:          d.AppointmentDate,
		Time:          d.AppointmentTime,
		PetName:       d.PetName,
		PetType:       d.PetType,
		Reason:        d.Reason,
		Status:        appointments.Status(d.Status),
		Amount:        d.Amount,
		PaymentStatus: appointments.PaymentStatus(d.PaymentStatus),
		CreatedAt:     d.CreatedAt,
	}
}

type AppointmentsRepo struct {
	c *mongo.Collection
}

func NewAppointmentsRepo(db *mongo.Database) *AppointmentsRepo {
	return &AppointmentsRepo{c: db.Collection(colAppointments)}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.c.InsertOne(ctx, appointmentDoc{
		AppointmentID:   a.ID,
		PetOwnerID:      a.PetOwnerID,
		VetID:           a.VetID,
		AppointmentDate: a.Date,
		AppointmentTime: a.Time,
		PetName:         a.PetName,
		PetType:         a.PetType,
		Reason:          a.Reason,
		Status:          string(a.Status),
		Amount:          a.Amount,
		PaymentStatus:   string(a.PaymentStatus),
		CreatedAt:       a.CreatedAt,
	})
	return mapErr(err)
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	var d appointmentDoc
	if err := r.c.FindOne(ctx, bson.M{"appointment_id": id}).Decode(&d); err != nil {
		return appointments.Appointment{}, mapErr(err)
	}
	return d.toDomain(), nil
}

func (r *AppointmentsRepo) List(ctx context.Context, f appointments.ListFilter) ([]appointments.Appointment, error) {
	filter := bson.M{}
	if f.PetOwnerID != "" {
		filter["pet_owner_id"] = f.PetOwnerID
	}
	if f.VetID != "" {
		filter["vet_id"] = f.VetID
	}

	cur, err := r.c.Find(ctx, filter, findAsc(limitOr(f.Limit, appointments.MaxList)))
	if err != nil {
		return nil, err
	}
	var docs []appointmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]appointments.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AppointmentsRepo) SetStatus(ctx context.Context, id string, status appointments.Status) error {
	return expectMatched(r.c.UpdateOne(ctx,
		bson.M{"appointment_id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
	))
}

func (r *AppointmentsRepo) SetPayment(ctx context.Context, id string, payment appointments.PaymentStatus, status appointments.Status) error {
	return expectMatched(r.c.UpdateOne(ctx,
		bson.M{"appointment_id": id},
		bson.M{"$set": bson.M{"payment_status": string(payment), "status": string(status)}},
	))
}
