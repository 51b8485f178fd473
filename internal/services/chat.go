package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tally/internal/advisor"
	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/storage"
)

type ChatService struct {
	storage   *storage.Repository
	responder *advisor.Responder
	cache     *cache.Cache[[]core.ChatMessage]
}

func NewChatService(storage *storage.Repository, responder *advisor.Responder, cacheSize int, cacheTTL time.Duration) *ChatService {
	return &ChatService{
		storage:   storage,
		responder: responder,
		cache:     cache.New[[]core.ChatMessage](cacheSize, cacheTTL),
	}
}

// Messages returns one conversation oldest-first.
func (s *ChatService) Messages(ctx context.Context, userID, conversationID string) ([]core.ChatMessage, error) {
	key := userID + "/" + conversationID
	if msgs, ok := s.cache.Get(key); ok {
		return msgs, nil
	}
	msgs, err := s.storage.ListChatMessages(ctx, userID, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	s.cache.Set(key, msgs)
	return msgs, nil
}

// Send stores the user's message, generates the assistant's reply and
// stores it too. Both messages come back so the caller can render the
// exchange without refetching the thread.
func (s *ChatService) Send(ctx context.Context, userID, conversationID, text string) (userMsg, reply core.ChatMessage, err error) {
	if strings.TrimSpace(text) == "" {
		return core.ChatMessage{}, core.ChatMessage{}, core.ErrEmptyMessage
	}
	if strings.TrimSpace(conversationID) == "" {
		return core.ChatMessage{}, core.ChatMessage{}, core.ErrEmptyConversation
	}

	userMsg, err = s.storage.InsertChatMessage(ctx, core.ChatMessage{
		UserID:         userID,
		Sender:         core.SenderUser,
		Text:           text,
		ConversationID: conversationID,
	})
	if err != nil {
		return core.ChatMessage{}, core.ChatMessage{}, fmt.Errorf("store user message: %w", err)
	}

	reply, err = s.storage.InsertChatMessage(ctx, core.ChatMessage{
		UserID:         userID,
		Sender:         core.SenderAssistant,
		Text:           s.responder.Reply(text),
		ConversationID: conversationID,
	})
	if err != nil {
		return core.ChatMessage{}, core.ChatMessage{}, fmt.Errorf("store assistant message: %w", err)
	}

	s.cache.Invalidate(userID + "/" + conversationID)
	return userMsg, reply, nil
}

// NewConversationID mints a fresh thread key.
func (s *ChatService) NewConversationID() string {
	return advisor.NewConversationID(time.Now())
}
