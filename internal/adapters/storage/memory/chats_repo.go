package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"rafikipets-api/internal/domain/chats"
	"rafikipets-api/internal/platform/apperr"
)

type pairKey struct {
	owner string
	vet   string
}

type chatRepo struct {
	mu     sync.RWMutex
	byID   map[string]chats.Chat
	byPair map[pairKey]string
}

func NewChatRepo() chats.ChatRepository {
	return &chatRepo{
		byID:   make(map[string]chats.Chat),
		byPair: make(map[pairKey]string),
	}
}

func (r *chatRepo) Create(ctx context.Context, c chats.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := pairKey{owner: c.PetOwnerID, vet: c.VetID}
	if _, exists := r.byPair[k]; exists {
		return apperr.ErrConflict
	}
	if _, exists := r.byID[c.ID]; exists {
		return apperr.ErrConflict
	}
	r.byID[c.ID] = c
	r.byPair[k] = c.ID
	return nil
}

func (r *chatRepo) GetByID(ctx context.Context, id string) (chats.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return chats.Chat{}, apperr.ErrNotFound
	}
	return c, nil
}

func (r *chatRepo) FindByPair(ctx context.Context, petOwnerID, vetID string) (chats.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byPair[pairKey{owner: petOwnerID, vet: vetID}]
	if !ok {
		return chats.Chat{}, apperr.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *chatRepo) List(ctx context.Context, f chats.ListFilter) ([]chats.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]chats.Chat, 0)
	for _, c := range r.byID {
		if f.PetOwnerID != "" && c.PetOwnerID != f.PetOwnerID {
			continue
		}
		if f.VetID != "" && c.VetID != f.VetID {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return limit(out, f.Limit), nil
}

func (r *chatRepo) SetLastMessage(ctx context.Context, chatID, content string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[chatID]
	if !ok {
		return apperr.ErrNotFound
	}
	msg, ts := content, at
	c.LastMessage = &msg
	c.LastMessageAt = &ts
	r.byID[chatID] = c
	return nil
}

type messageRepo struct {
	mu     sync.RWMutex
	byChat map[string][]chats.Message
}

func NewMessageRepo() chats.MessageRepository {
	return &messageRepo{byChat: make(map[string][]chats.Message)}
}

func (r *messageRepo) Append(ctx context.Context, m chats.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byChat[m.ChatID] = append(r.byChat[m.ChatID], m)
	return nil
}

func (r *messageRepo) List(ctx context.Context, chatID string, n int) ([]chats.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]chats.Message(nil), r.byChat[chatID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if out == nil {
		out = make([]chats.Message, 0)
	}
	return limit(out, n), nil
}
