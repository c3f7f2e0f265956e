package services

import (
	"context"
	"strings"

	"github.com/eventlive/eventlive-backend/internal/metrics"
)

// DirectRole tells which branch answered a direct webhook.
type DirectRole string

const (
	RoleOperator DirectRole = "operator"
	RoleUser     DirectRole = "user"
)

// DirectReply is the synchronous answer to a direct webhook. Message is the
// operator feedback or the user reply depending on Role.
type DirectReply struct {
	Role       DirectRole
	Message    string
	UserChatID string
}

// DirectService answers the simple webhook shape
// {user, userChat{id}, userChatId, message} synchronously from the field
// store. Operators manage live data with slash commands; everyone else gets
// a keyword-routed answer.
type DirectService struct {
	console   *OperatorConsole
	responder *FieldResponder
	metrics   *metrics.Metrics
}

func NewDirectService(console *OperatorConsole, responder *FieldResponder, m *metrics.Metrics) *DirectService {
	return &DirectService{console: console, responder: responder, metrics: m}
}

func (s *DirectService) Handle(ctx context.Context, payload Node) (DirectReply, error) {
	text := payload.Get("message").Text()
	chatID := FirstText(payload.Get("userChatId"), payload.Get("userChat", "id"))

	if IsOperator(payload) && strings.HasPrefix(text, "/") {
		msg, err := s.console.Execute(ctx, text)
		if err != nil {
			s.metrics.WebhookEvent("direct", "error")
			return DirectReply{}, err
		}
		s.metrics.WebhookEvent("direct", string(RoleOperator))
		return DirectReply{Role: RoleOperator, Message: msg}, nil
	}

	reply, err := s.responder.Reply(ctx, text)
	if err != nil {
		s.metrics.WebhookEvent("direct", "error")
		return DirectReply{}, err
	}
	s.metrics.WebhookEvent("direct", string(RoleUser))
	return DirectReply{Role: RoleUser, Message: reply, UserChatID: chatID}, nil
}
