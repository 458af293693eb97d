package router

import (
	"database/sql"

	goredis "github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/v2/mongo"

	mem "rafikipets-api/internal/adapters/storage/memory"
	mdb "rafikipets-api/internal/adapters/storage/mongodb"
	pg "rafikipets-api/internal/adapters/storage/postgres"
	rds "rafikipets-api/internal/adapters/storage/redis"
	"rafikipets-api/internal/domain/appointments"
	"rafikipets-api/internal/domain/chats"
	"rafikipets-api/internal/domain/emergencies"
	"rafikipets-api/internal/domain/payments"
	"rafikipets-api/internal/domain/sessions"
	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/domain/vets"
)

// Stores agrupa los repos de todos los módulos. Cada backend arma el suyo.
type Stores struct {
	Users        users.Repository
	Sessions     sessions.Repository
	Vets         vets.Repository
	Appointments appointments.Repository
	Emergencies  emergencies.Repository
	Chats        chats.ChatRepository
	Messages     chats.MessageRepository
	Payments     payments.Repository
}

func MemoryStores() Stores {
	return Stores{
		Users:        mem.NewUserRepo(),
		Sessions:     mem.NewSessionRepo(),
		Vets:         mem.NewVetRepo(),
		Appointments: mem.NewAppointmentRepo(),
		Emergencies:  mem.NewEmergencyRepo(),
		Chats:        mem.NewChatRepo(),
		Messages:     mem.NewMessageRepo(),
		Payments:     mem.NewPaymentRepo(),
	}
}

func PostgresStores(db *sql.DB) Stores {
	return Stores{
		Users:        pg.NewUsersRepo(db),
		Sessions:     pg.NewSessionsRepo(db),
		Vets:         pg.NewVetsRepo(db),
		Appointments: pg.NewAppointmentsRepo(db),
		Emergencies:  pg.NewEmergenciesRepo(db),
		Chats:        pg.NewChatsRepo(db),
		Messages:     pg.NewMessagesRepo(db),
		Payments:     pg.NewPaymentsRepo(db),
	}
}

func MongoStores(db *mongo.Database) Stores {
	return Stores{
		Users:        mdb.NewUsersRepo(db),
		Sessions:     mdb.NewSessionsRepo(db),
		Vets:         mdb.NewVetsRepo(db),
		Appointments: mdb.NewAppointmentsRepo(db),
		Emergencies:  mdb.NewEmergenciesRepo(db),
		Chats:        mdb.NewChatsRepo(db),
		Messages:     mdb.NewMessagesRepo(db),
		Payments:     mdb.NewPaymentsRepo(db),
	}
}

// WithRedisSessions mueve solo las sesiones a Redis (TTL nativo).
func (s Stores) WithRedisSessions(c goredis.Cmdable) Stores {
	s.Sessions = rds.NewSessionsRepo(c)
	return s
}
