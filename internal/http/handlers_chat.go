package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleNewConversation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{
		"conversationId": s.svc.Chat.NewConversationID(),
	})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.svc.Chat.Messages(r.Context(), userID(r), chi.URLParam(r, "conversationID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toChatMessagesJSON(msgs))
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage      chatMessageJSON `json:"userMessage"`
	AssistantMessage chatMessageJSON `json:"assistantMessage"`
}

// handleSendMessage stores the user's message and answers with the
// advisor's reply in the same response, so the frontend renders the full
// exchange without a refetch.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userMsg, reply, err := s.svc.Chat.Send(r.Context(), userID(r), chi.URLParam(r, "conversationID"), req.Text)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sendMessageResponse{
		UserMessage:      toChatMessageJSON(userMsg),
		AssistantMessage: toChatMessageJSON(reply),
	})
}
