package chats

import (
	"context"
	"errors"
	"strings"
	"time"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/platform/apperr"
	"rafikipets-api/internal/platform/ids"
)

var ErrChatNotFound = apperr.NotFound("Chat not found")

type Service struct {
	chats    ChatRepository
	messages MessageRepository
	users    *users.Service
	now      func() time.Time
}

func NewService(chats ChatRepository, messages MessageRepository, us *users.Service) *Service {
	return &Service{
		chats:    chats,
		messages: messages,
		users:    us,
		now:      time.Now,
	}
}

// GetOrCreate es idempotente por (dueño, vet). Si otro request gana la carrera del
// insert, el unique index lo rechaza y se relee el ganador.
func (s *Service) GetOrCreate(ctx context.Context, ownerID, vetID string) (Chat, error) {
	vetID = strings.TrimSpace(vetID)
	if vetID == "" {
		return Chat{}, apperr.Validation("vet_id is required")
	}

	c, err := s.chats.FindByPair(ctx, ownerID, vetID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return Chat{}, err
	}

	c = Chat{
		ID:         ids.New("chat"),
		PetOwnerID: ownerID,
		VetID:      vetID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.chats.Create(ctx, c); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return s.chats.FindByPair(ctx, ownerID, vetID)
		}
		return Chat{}, err
	}
	return c, nil
}

func (s *Service) ListFor(ctx context.Context, userID string, role users.Role) ([]ChatEntry, error) {
	f := ListFilter{Limit: MaxChats}
	if role == users.RoleVet {
		f.VetID = userID
	} else {
		f.PetOwnerID = userID
	}

	items, err := s.chats.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]ChatEntry, 0, len(items))
	for _, c := range items {
		e := ChatEntry{Chat: c}
		if u, ok := s.users.Lookup(ctx, c.VetID); ok {
			e.VetName = u.Name
			e.VetPicture = u.Picture
		}
		if u, ok := s.users.Lookup(ctx, c.PetOwnerID); ok {
			e.OwnerName = u.Name
			e.OwnerPicture = u.Picture
		}
		out = append(out, e)
	}
	return out, nil
}

type SendInput struct {
	ChatID  string `json:"chat_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// Send agrega el mensaje y copia contenido y timestamp al chat.
func (s *Service) Send(ctx context.Context, senderID string, in SendInput) (Message, error) {
	chatID := strings.TrimSpace(in.ChatID)
	if _, err := s.chats.GetByID(ctx, chatID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Message{}, ErrChatNotFound
		}
		return Message{}, err
	}

	m := Message{
		ID:        ids.New("msg"),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   in.Content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.messages.Append(ctx, m); err != nil {
		return Message{}, err
	}
	if err := s.chats.SetLastMessage(ctx, chatID, m.Content, m.CreatedAt); err != nil {
		return Message{}, err
	}
	return m, nil
}

func (s *Service) History(ctx context.Context, chatID string) ([]MessageEntry, error) {
	items, err := s.messages.List(ctx, strings.TrimSpace(chatID), MaxMessages)
	if err != nil {
		return nil, err
	}

	// Varios mensajes del mismo remitente: una sola consulta por usuario.
	seen := map[string]users.User{}
	out := make([]MessageEntry, 0, len(items))
	for _, m := range items {
		e := MessageEntry{Message: m}
		u, ok := seen[m.SenderID]
		if !ok {
			if u, ok = s.users.Lookup(ctx, m.SenderID); ok {
				seen[m.SenderID] = u
			}
		}
		if ok {
			e.SenderName = u.Name
			e.SenderPicture = u.Picture
		}
		out = append(out, e)
	}
	return out, nil
}
