package chat

import (
	"encoding/json"

	"github.com/bnema/foodfast-cli/internal/adapters/api"
	"github.com/bnema/foodfast-cli/internal/domain"
)

// frame is the wire envelope for every message in either direction.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Wire event names. The server emits connected, customer_chat, chat_opened,
// chats_list, message, delivered, typing_status and new_chat; the client
// emits customer_handshake, agent_subscribe, get_chats, open_chat,
// send_message and typing.
const (
	eventConnected         = "connected"
	eventCustomerHandshake = "customer_handshake"
	eventCustomerChat      = "customer_chat"
	eventAgentSubscribe    = "agent_subscribe"
	eventGetChats          = "get_chats"
	eventChatsList         = "chats_list"
	eventOpenChat          = "open_chat"
	eventChatOpened        = "chat_opened"
	eventSendMessage       = "send_message"
	eventMessage           = "message"
	eventDelivered         = "delivered"
	eventTyping            = "typing"
	eventTypingStatus      = "typing_status"
	eventNewChat           = "new_chat"
)

type messagePayload struct {
	ID     int64  `json:"id"`
	ChatID int64  `json:"chat_id"`
	Sender string `json:"sender"`
	Role   string `json:"role"`
	Text   string `json:"text"`
	TS     string `json:"ts"`
}

func (m messagePayload) toDomain() domain.ChatMessage {
	role := domain.Role(m.Role)
	// The server stores the employee side as "agent" in older rows.
	if m.Role == "agent" {
		role = domain.RoleEmployee
	}
	return domain.ChatMessage{
		ID:     m.ID,
		ChatID: m.ChatID,
		Sender: m.Sender,
		Role:   role,
		Text:   m.Text,
		SentAt: api.ParseTimestamp(m.TS),
	}
}

type snapshotPayload struct {
	ChatID  int64            `json:"chat_id"`
	History []messagePayload `json:"history"`
	NewChat bool             `json:"new_chat"`
}

func (s snapshotPayload) toDomain() domain.ChatSnapshot {
	history := make([]domain.ChatMessage, 0, len(s.History))
	for _, m := range s.History {
		history = append(history, m.toDomain())
	}
	return domain.ChatSnapshot{ChatID: s.ChatID, History: history}
}

type summaryPayload struct {
	ChatID   int64  `json:"chat_id"`
	Customer string `json:"customer"`
	LastText string `json:"last_text"`
	LastTS   string `json:"last_ts"`
}

// Event is one decoded server-side chat event, delivered in arrival order.
// The concrete type is one of SnapshotEvent, MessageEvent, RosterEvent,
// TypingEvent, DeliveredEvent or NewChatEvent.
type Event any

// SnapshotEvent carries the full history for a room. The local log has
// already been replaced with it when the event is delivered.
type SnapshotEvent struct {
	Snapshot domain.ChatSnapshot
	NewChat  bool
}

type MessageEvent struct {
	Message domain.ChatMessage
}

// RosterEvent is the employee-side list of open chats, most recent first.
type RosterEvent struct {
	Chats []domain.ChatSummary
}

// TypingEvent lists who else is currently typing in a room.
type TypingEvent struct {
	ChatID int64
	Users  []string
}

// DeliveredEvent acknowledges that a sent message was stored.
type DeliveredEvent struct {
	ChatID    int64
	MessageID int64
}

// NewChatEvent tells subscribed employees a customer opened a fresh room.
type NewChatEvent struct {
	ChatID   int64
	Customer string
}
