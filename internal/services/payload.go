package services

import "strings"

// Actor classifies who sent an inbound event.
type Actor string

const (
	ActorUser    Actor = "user"
	ActorBot     Actor = "bot"
	ActorUnknown Actor = "unknown"
)

// UnknownOwner is used when no owner identifier can be resolved.
const UnknownOwner = "unknown"

// InboundEvent is the normalized form of a channel webhook payload.
type InboundEvent struct {
	Actor     Actor
	ChatID    string
	Text      string
	OwnerID   string
	FirstName *string
	LastName  *string
}

// DisplayName recombines the stored name parts; nil when both are absent.
func (e InboundEvent) DisplayName() *string {
	return CombineName(e.FirstName, e.LastName)
}

// ExtractEvent normalizes a parsed channel webhook body.
func ExtractEvent(payload Node) InboundEvent {
	first, last := SplitName(extractFullName(payload))
	return InboundEvent{
		Actor:     extractActor(payload),
		ChatID:    extractChatID(payload),
		Text:      extractText(payload),
		OwnerID:   extractOwnerID(payload),
		FirstName: first,
		LastName:  last,
	}
}

func extractActor(p Node) Actor {
	for _, n := range []Node{
		p.Get("entity", "personType"),
		p.Get("messages").First().Get("personType"),
		p.Get("refers", "online", "personType"),
	} {
		switch Actor(n.Text()) {
		case ActorUser:
			return ActorUser
		case ActorBot:
			return ActorBot
		}
	}
	return ActorUnknown
}

func extractChatID(p Node) string {
	return FirstText(
		p.Get("entity", "chatId"),
		p.Get("data", "userChatId"),
		p.Get("data", "chatId"),
		p.Get("messages").First().Get("chatId"),
	)
}

// messageText reads plainText, then the first block when it is a text block.
func messageText(msg Node) string {
	if t := msg.Get("plainText").Text(); t != "" {
		return t
	}
	block := msg.Get("blocks").First()
	if block.Get("type").Text() == "text" {
		return block.Get("value").Text()
	}
	return ""
}

func extractText(p Node) string {
	if t := messageText(p.Get("entity")); t != "" {
		return t
	}
	if t := messageText(p.Get("messages").First()); t != "" {
		return t
	}
	return p.Get("data", "plainText").Text()
}

func extractOwnerID(p Node) string {
	owner := FirstText(
		p.Get("refers", "userChat", "userId"),
		p.Get("refers", "user", "id"),
		p.Get("refers", "online", "personId"),
		p.Get("entity", "personId"),
	)
	if owner == "" {
		return UnknownOwner
	}
	return owner
}

func extractFullName(p Node) string {
	return FirstText(
		p.Get("refers", "user", "name"),
		p.Get("entity", "name"),
	)
}

// SplitName splits a full name on the first run of whitespace.
func SplitName(full string) (first, rest *string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return nil, nil
	}
	f := parts[0]
	if len(parts) == 1 {
		return &f, nil
	}
	r := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(full), f))
	return &f, &r
}

// CombineName joins the name parts with a single space, skipping empty parts.
func CombineName(first, last *string) *string {
	var parts []string
	for _, p := range []*string{first, last} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " ")
	return &joined
}
