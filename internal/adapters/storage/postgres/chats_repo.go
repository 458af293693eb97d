package postgres

import (
	"context"
	"database/sql"
	"time"

	"rafikipets-api/internal/domain/chats"
)

type ChatsRepo struct {
	db *sql.DB
}

func NewChatsRepo(db *sql.DB) *ChatsRepo {
	return &ChatsRepo{db: db}
}

const chatColumns = `id, pet_owner_id, vet_id, last_message, last_message_at, created_at`

// Create depende de UNIQUE (pet_owner_id, vet_id) para detectar duplicados.
func (r *ChatsRepo) Create(ctx context.Context, c chats.Chat) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO chats (`+chatColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, c.ID, c.PetOwnerID, c.VetID, c.LastMessage, c.LastMessageAt, c.CreatedAt)
	return mapErr(err)
}

func (r *ChatsRepo) GetByID(ctx context.Context, id string) (chats.Chat, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = $1`, id)
	c, err := scanChat(row)
	if err != nil {
		return chats.Chat{}, mapErr(err)
	}
	return c, nil
}

func (r *ChatsRepo) FindByPair(ctx context.Context, petOwnerID, vetID string) (chats.Chat, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+chatColumns+` FROM chats WHERE pet_owner_id = $1 AND vet_id = $2
	`, petOwnerID, vetID)
	c, err := scanChat(row)
	if err != nil {
		return chats.Chat{}, mapErr(err)
	}
	return c, nil
}

func (r *ChatsRepo) List(ctx context.Context, f chats.ListFilter) ([]chats.Chat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+chatColumns+`
		FROM chats
		WHERE ($1 = '' OR pet_owner_id = $1)
		  AND ($2 = '' OR vet_id = $2)
		ORDER BY created_at ASC
		LIMIT $3
	`, f.PetOwnerID, f.VetID, limitOr(f.Limit, chats.MaxChats))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chats.Chat, 0)
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ChatsRepo) SetLastMessage(ctx context.Context, chatID, content string, at time.Time) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE chats SET last_message = $2, last_message_at = $3 WHERE id = $1
	`, chatID, content, at))
}

func scanChat(s rowScanner) (chats.Chat, error) {
	var c chats.Chat
	err := s.Scan(
		&c.ID,
		&c.PetOwnerID,
		&c.VetID,
		&c.LastMessage,
		&c.LastMessageAt,
		&c.CreatedAt,
	)
	return c, err
}

type MessagesRepo struct {
	db *sql.DB
}

func NewMessagesRepo(db *sql.DB) *MessagesRepo {
	return &MessagesRepo{db: db}
}

func (r *MessagesRepo) Append(ctx context.Context, m chats.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, content, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`, m.ID, m.ChatID, m.SenderID, m.Content, m.CreatedAt)
	return mapErr(err)
}

func (r *MessagesRepo) List(ctx context.Context, chatID string, limit int) ([]chats.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, sender_id, content, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC
		LIMIT $2
	`, chatID, limitOr(limit, chats.MaxMessages))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chats.Message, 0)
	for rows.Next() {
		var m chats.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
