package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/chat-session", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Post("/{id}/mode", h.SwitchMode)
		r.Post("/{id}/documents", h.UploadDocuments)
		r.Post("/{id}/messages", h.SendMessage)
		r.Get("/{id}/messages", h.GetMessages)
		r.Get("/{id}/chart", h.GetChart)
		r.Get("/{id}/transcript", h.GetTranscript)
	})
}
