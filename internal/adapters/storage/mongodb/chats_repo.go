package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"rafikipets-api/internal/domain/chats"
)

type chatDoc struct {
	ChatID        string     `bson:"chat_id"`
	PetOwnerID    string     `bson:"pet_owner_id"`
	VetID         string     `bson:"vet_id"`
	LastMessage   *string    `bson:"last_message"`
	LastMessageAt *time.Time `bson:"last_message_at"`
	CreatedAt     time.Time  `bson:"created_at"`
}

func (d chatDoc) toDomain() chats.Chat {
	return chats.Chat{
		ID:            d.ChatID,
		PetOwnerID:    d.PetOwnerID,
		VetID:         d.VetID,
		LastMessage:   d.LastMessage,
		LastMessageAt: d.LastMessageAt,
		CreatedAt:     d.CreatedAt,
	}
}

type ChatsRepo struct {
	c *mongo.Collection
}

func NewChatsRepo(db *mongo.Database) *ChatsRepo {
	return &ChatsRepo{c: db.Collection(colChats)}
}

// Create depende del índice único (pet_owner_id, vet_id).
func (r *ChatsRepo) Create(ctx context.Context, c chats.Chat) error {
	_, err := r.c.InsertOne(ctx, chatDoc{
		ChatID:        c.ID,
		PetOwnerID:    c.PetOwnerID,
		VetID:         c.VetID,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	})
	return mapErr(err)
}

func (r *ChatsRepo) GetByID(ctx context.Context, id string) (chats.Chat, error) {
	return r.findOne(ctx, bson.M{"chat_id": id})
}

func (r *ChatsRepo) FindByPair(ctx context.Context, petOwnerID, vetID string) (chats.Chat, error) {
	return r.findOne(ctx, bson.M{"pet_owner_id": petOwnerID, "vet_id": vetID})
}

func (r *ChatsRepo) List(ctx context.Context, f chats.ListFilter) ([]chats.Chat, error) {
	filter := bson.M{}
	if f.PetOwnerID != "" {
		filter["pet_owner_id"] = f.PetOwnerID
	}
	if f.VetID != "" {
		filter["vet_id"] = f.VetID
	}

	cur, err := r.c.Find(ctx, filter, findAsc(limitOr(f.Limit, chats.MaxChats)))
	if err != nil {
		return nil, err
	}
	var docs []chatDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]chats.Chat, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ChatsRepo) SetLastMessage(ctx context.Context, chatID, content string, at time.Time) error {
	return expectMatched(r.c.UpdateOne(ctx,
		bson.M{"chat_id": chatID},
		bson.M{"$set": bson.M{"last_message": content, "last_message_at": at}},
	))
}

func (r *ChatsRepo) findOne(ctx context.Context, filter bson.M) (chats.Chat, error) {
	var d chatDoc
	if err := r.c.FindOne(ctx, filter).Decode(&d); err != nil {
		return chats.Chat{}, mapErr(err)
	}
	return d.toDomain(), nil
}

type messageDoc struct {
	MessageID string    `bson:"message_id"`
	ChatID    string    `bson:"chat_id"`
	SenderID  string    `bson:"sender_id"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
}

type MessagesRepo struct {
	c *mongo.Collection
}

func NewMessagesRepo(db *mongo.Database) *MessagesRepo {
	return &MessagesRepo{c: db.Collection(colMessages)}
}

func (r *MessagesRepo) Append(ctx context.Context, m chats.Message) error {
	_, err := r.c.InsertOne(ctx, messageDoc{
		MessageID: m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	})
	return mapErr(err)
}

func (r *MessagesRepo) List(ctx context.Context, chatID string, limit int) ([]chats.Message, error) {
	cur, err := r.c.Find(ctx, bson.M{"chat_id": chatID}, findAsc(limitOr(limit, chats.MaxMessages)))
	if err != nil {
		return nil, err
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]chats.Message, 0, len(docs))
	for _, d := range docs {
		out = append(out, chats.Message{
			ID:        d.MessageID,
			ChatID:    d.ChatID,
			SenderID:  d.SenderID,
			Content:   d.Content,
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}
