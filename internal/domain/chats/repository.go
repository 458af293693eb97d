package chats

import (
	"context"
	"time"
)

const (
	MaxChats    = 100
	MaxMessages = 1000
)

type ListFilter struct {
	PetOwnerID string
	VetID      string
	Limit      int
}

type ChatRepository interface {
	// Create devuelve apperr.ErrConflict si ya existe un chat para el par.
	Create(ctx context.Context, c Chat) error
	GetByID(ctx context.Context, id string) (Chat, error)
	FindByPair(ctx context.Context, petOwnerID, vetID string) (Chat, error)
	List(ctx context.Context, f ListFilter) ([]Chat, error)
	SetLastMessage(ctx context.Context, chatID, content string, at time.Time) error
}

type MessageRepository interface {
	Append(ctx context.Context, m Message) error
	// List devuelve en orden ascendente por CreatedAt.
	List(ctx context.Context, chatID string, limit int) ([]Message, error)
}
