package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eventlive/eventlive-backend/internal/metrics"
	"github.com/eventlive/eventlive-backend/internal/models"
	"github.com/eventlive/eventlive-backend/internal/storage"
)

const (
	ReasonNoChatID = "no_userChatId_in_payload"
	historyLimit   = 5
)

// Ack is the body returned to the chat platform for a channel webhook.
type Ack struct {
	OK      bool   `json:"ok"`
	Handled string `json:"handled,omitempty"`
	Stored  string `json:"stored,omitempty"`
	Skipped string `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// Outcome names the ack for logs and metrics.
func (a Ack) Outcome() string {
	switch {
	case a.Handled != "":
		return "handled_" + a.Handled
	case a.Stored != "":
		return "stored_" + a.Stored
	case a.Skipped != "":
		return "skipped"
	default:
		return "no_chat_id"
	}
}

// ReplyService handles channel webhook events: it persists the message,
// works out a reply and hands it to the dispatcher.
type ReplyService struct {
	store      storage.Store
	router     *VenueRouter
	dispatcher *Dispatcher
	metrics    *metrics.Metrics
	log        *zap.Logger
	debug      bool
}

func NewReplyService(store storage.Store, router *VenueRouter, dispatcher *Dispatcher, m *metrics.Metrics, log *zap.Logger, debug bool) *ReplyService {
	return &ReplyService{
		store:      store,
		router:     router,
		dispatcher: dispatcher,
		metrics:    m,
		log:        log.Named("reply"),
		debug:      debug,
	}
}

// HandleEvent processes one event. A non-nil error means persistence failed
// and nothing was sent.
func (s *ReplyService) HandleEvent(ctx context.Context, evt InboundEvent) (Ack, error) {
	if s.debug {
		s.log.Info("channel event",
			zap.String("actor", string(evt.Actor)),
			zap.String("owner", evt.OwnerID),
			zap.String("chat", evt.ChatID),
			zap.String("text", evt.Text))
	}

	ack, err := s.handle(ctx, evt)
	if err != nil {
		s.metrics.WebhookEvent("channel", "error")
		return Ack{}, err
	}
	s.metrics.WebhookEvent("channel", ack.Outcome())
	return ack, nil
}

func (s *ReplyService) handle(ctx context.Context, evt InboundEvent) (Ack, error) {
	if evt.ChatID == "" {
		return Ack{OK: false, Reason: ReasonNoChatID}, nil
	}

	switch evt.Actor {
	case ActorUser:
		if err := s.handleUser(ctx, evt); err != nil {
			return Ack{}, err
		}
		return Ack{OK: true, Handled: string(ActorUser)}, nil

	case ActorBot:
		if _, err := s.store.UpsertUser(ctx, evt.OwnerID, evt.DisplayName()); err != nil {
			return Ack{}, newError(ErrorPersistence, "upsert user", err)
		}
		id, err := s.store.AppendLog(ctx, evt.OwnerID, models.RoleBot, models.MessageOrPlaceholder(evt.Text))
		if err != nil {
			return Ack{}, newError(ErrorPersistence, "append bot log", err)
		}
		if s.debug {
			s.log.Info("saved bot log", zap.Uint("log_id", id), zap.String("owner", evt.OwnerID))
		}
		return Ack{OK: true, Stored: string(ActorBot)}, nil

	default:
		return Ack{OK: true, Skipped: "unknown-actor"}, nil
	}
}

func (s *ReplyService) handleUser(ctx context.Context, evt InboundEvent) error {
	lower := strings.ToLower(strings.TrimSpace(evt.Text))

	switch {
	case strings.HasPrefix(lower, "/history"):
		logs, err := s.store.RecentLogs(ctx, evt.OwnerID, models.RoleUser, historyLimit)
		if err != nil {
			return newError(ErrorPersistence, "recent logs", err)
		}
		s.dispatcher.Dispatch(evt.ChatID, formatHistory(logs))
		return nil

	case strings.HasPrefix(lower, "/inq"):
		_, body, _ := strings.Cut(evt.Text, " ")
		if err := s.record(ctx, evt, strings.TrimSpace(body)); err != nil {
			return err
		}
		s.dispatcher.Dispatch(evt.ChatID, replyInquiryReceived)
		return nil
	}

	if err := s.record(ctx, evt, evt.Text); err != nil {
		return err
	}
	reply, err := s.router.Reply(ctx, evt.Text)
	if err != nil {
		return err
	}
	s.dispatcher.Dispatch(evt.ChatID, reply)
	return nil
}

// record upserts the sender and then appends message as a user log.
func (s *ReplyService) record(ctx context.Context, evt InboundEvent, message string) error {
	if _, err := s.store.UpsertUser(ctx, evt.OwnerID, evt.DisplayName()); err != nil {
		return newError(ErrorPersistence, "upsert user", err)
	}
	id, err := s.store.AppendLog(ctx, evt.OwnerID, models.RoleUser, models.MessageOrPlaceholder(message))
	if err != nil {
		return newError(ErrorPersistence, "append user log", err)
	}
	if s.debug {
		s.log.Info("saved user log", zap.Uint("log_id", id), zap.String("owner", evt.OwnerID))
	}
	return nil
}

func formatHistory(logs []*models.ChatLog) string {
	if len(logs) == 0 {
		return "최근 문의:\n(문의 없음)"
	}
	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		lines = append(lines, "- "+l.Message)
	}
	return "최근 문의:\n" + strings.Join(lines, "\n")
}
