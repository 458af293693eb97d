package chats

import "time"

// Chat entre un dueño y un vet. El par (PetOwnerID, VetID) es único.
// LastMessage/LastMessageAt son una copia del último Message enviado.
type Chat struct {
	ID            string
	PetOwnerID    string
	VetID         string
	LastMessage   *string
	LastMessageAt *time.Time

	CreatedAt time.Time
}

type Message struct {
	ID       string
	ChatID   string
	SenderID string
	Content  string

	CreatedAt time.Time
}

type ChatEntry struct {
	Chat
	VetName      string
	VetPicture   *string
	OwnerName    string
	OwnerPicture *string
}

// MessageEntry: SenderName vacío => remitente no encontrado.
type MessageEntry struct {
	Message
	SenderName    string
	SenderPicture *string
}
