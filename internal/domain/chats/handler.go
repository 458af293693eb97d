package chats

import (
	"net/http"
	"time"

	"rafikipets-api/internal/domain/users"
	"rafikipets-api/internal/middleware"
	"rafikipets-api/internal/platform/httpx"
	"rafikipets-api/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, log logger.Logger) {
	r.Route("/chats", func(cr chi.Router) {
		cr.Post("/", getOrCreateChatHandler(svc, log))
		cr.Get("/", listChatsHandler(svc, log))
	})

	r.Route("/messages", func(mr chi.Router) {
		mr.Post("/", sendMessageHandler(svc, log))
		mr.Get("/{chatID}", listMessagesHandler(svc, log))
	})
}

type chatResponse struct {
	ChatID        string     `json:"chat_id"`
	PetOwnerID    string     `json:"pet_owner_id"`
	VetID         string     `json:"vet_id"`
	LastMessage   *string    `json:"last_message"`
	LastMessageAt *time.Time `json:"last_message_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

type chatEntryResponse struct {
	chatResponse
	VetName      string  `json:"vet_name,omitempty"`
	VetPicture   *string `json:"vet_picture,omitempty"`
	OwnerName    string  `json:"owner_name,omitempty"`
	OwnerPicture *string `json:"owner_picture,omitempty"`
}

type messageResponse struct {
	MessageID string    `json:"message_id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type messageEntryResponse struct {
	messageResponse
	SenderName    string  `json:"sender_name,omitempty"`
	SenderPicture *string `json:"sender_picture,omitempty"`
}

// getOrCreateChatHandler godoc
// @Summary Abrir chat con un vet
// @Description Idempotente: repetir la llamada con el mismo vet devuelve el mismo chat_id.
// @Tags chats
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param vet_id query string true "user_id del vet"
// @Success 200 {object} chatResponse
// @Failure 400 {object} object "vet_id is required"
// @Failure 401 {object} object "Not authenticated"
// @Router /chats [post]
func getOrCreateChatHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		vetID, err := httpx.QueryRequired(r, "vet_id")
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		c, err := svc.GetOrCreate(r.Context(), claims.UserID, vetID)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toChatResponse(c))
	}
}

// listChatsHandler godoc
// @Summary Mis chats
// @Tags chats
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Success 200 {array} chatEntryResponse
// @Failure 401 {object} object "Not authenticated"
// @Router /chats [get]
func listChatsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		items, err := svc.ListFor(r.Context(), claims.UserID, users.Role(claims.Role))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]chatEntryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, chatEntryResponse{
				chatResponse: toChatResponse(e.Chat),
				VetName:      e.VetName,
				VetPicture:   e.VetPicture,
				OwnerName:    e.OwnerName,
				OwnerPicture: e.OwnerPicture,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// sendMessageHandler godoc
// @Summary Enviar mensaje
// @Tags chats
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param payload body SendInput true "chat_id y contenido"
// @Success 200 {object} messageResponse
// @Failure 400 {object} object "validación"
// @Failure 401 {object} object "Not authenticated"
// @Failure 404 {object} object "Chat not found"
// @Router /messages [post]
func sendMessageHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := middleware.RequireClaims(r.Context())
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		var req SendInput
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		m, err := svc.Send(r.Context(), claims.UserID, req)
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toMessageResponse(m))
	}
}

// listMessagesHandler godoc
// @Summary Historial de un chat
// @Description Orden ascendente por fecha, máximo 1000.
// @Tags chats
// @Produce json
// @Param Authorization header string false "Bearer <session_token> (alternativa a la cookie)"
// @Param chatID path string true "ID del chat"
// @Success 200 {array} messageEntryResponse
// @Failure 401 {object} object "Not authenticated"
// @Router /messages/{chatID} [get]
func listMessagesHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := middleware.RequireClaims(r.Context()); err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		items, err := svc.History(r.Context(), chi.URLParam(r, "chatID"))
		if err != nil {
			httpx.WriteError(w, r, log, err)
			return
		}

		out := make([]messageEntryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, messageEntryResponse{
				messageResponse: toMessageResponse(e.Message),
				SenderName:      e.SenderName,
				SenderPicture:   e.SenderPicture,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toChatResponse(c Chat) chatResponse {
	return chatResponse{
		ChatID:        c.ID,
		PetOwnerID:    c.PetOwnerID,
		VetID:         c.VetID,
		LastMessage:   c.LastMessage,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func toMessageResponse(m Message) messageResponse {
	return messageResponse{
		MessageID: m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
