// Package chat is the realtime support-chat channel. It speaks JSON frames
// over a single websocket, keeps the active room's message log, and surfaces
// decoded events for the terminal UI.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/bnema/foodfast-cli/internal/adapters/api"
	"github.com/bnema/foodfast-cli/internal/domain"
	"github.com/bnema/foodfast-cli/internal/session"
)

const eventBuffer = 32

// Channel is one websocket connection to the chat endpoint. Connect it, then
// run either the customer handshake or the employee subscription. A dropped
// connection stays down; the caller reconnects by making a new Channel.
type Channel struct {
	URL     string
	Dialer  *websocket.Dialer
	Session *session.State

	events chan Event
	done   chan struct{}
	quit   chan struct{}

	writeMu sync.Mutex

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	err       error
	log       domain.ChatLog

	closeOnce sync.Once
}

func NewChannel(url string, state *session.State) *Channel {
	return &Channel{
		URL:     url,
		Session: state,
		events:  make(chan Event, eventBuffer),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
	}
}

// Connect dials the chat endpoint and starts the read loop. It does not
// identify the user; follow with CustomerHandshake or AgentSubscribe.
func (c *Channel) Connect(ctx context.Context) error {
	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	header := make(map[string][]string)
	if token := c.Session.Current().AccessToken; token != "" {
		header["Authorization"] = []string{"Bearer " + token}
	}

	conn, resp, err := dialer.DialContext(ctx, c.URL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial chat endpoint: status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("dial chat endpoint: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// CustomerHandshake identifies the customer and asks for their single room.
// The server answers with a customer_chat snapshot.
func (c *Channel) CustomerHandshake() error {
	user := c.Session.Current().User
	return c.write(eventCustomerHandshake, map[string]any{"user": user.DisplayName()})
}

// AgentSubscribe joins the employee roster feed. The server answers with a
// chats_list and pushes new_chat events afterwards.
func (c *Channel) AgentSubscribe() error {
	return c.write(eventAgentSubscribe, map[string]any{})
}

// RefreshRoster asks for the current chats_list again.
func (c *Channel) RefreshRoster() error {
	return c.write(eventGetChats, map[string]any{})
}

// OpenChat switches the employee into a room. The chat_opened answer installs
// that room's history as the active log, discarding the previous one.
func (c *Channel) OpenChat(chatID int64) error {
	return c.write(eventOpenChat, map[string]any{"chat_id": chatID})
}

// Send submits one message to the active room. Validation is local and
// ordered: empty text, then no active room, then a dropped connection.
func (c *Channel) Send(text string) error {
	if text == "" {
		return domain.ErrEmptyMessage
	}

	c.mu.Lock()
	chatID := c.log.ChatID()
	connected := c.connected
	c.mu.Unlock()

	if chatID == 0 {
		return domain.ErrNoActiveChat
	}
	if !connected {
		return domain.ErrNotConnected
	}

	user := c.Session.Current().User
	return c.write(eventSendMessage, map[string]any{
		"chat_id": chatID,
		"text":    text,
		"role":    string(user.Role),
		"user":    user.DisplayName(),
	})
}

// Typing reports the local typing state for the active room. It is a silent
// no-op without a room or connection so the notifier never errors mid-stroke.
func (c *Channel) Typing(isTyping bool) {
	c.mu.Lock()
	chatID := c.log.ChatID()
	connected := c.connected
	c.mu.Unlock()

	if chatID == 0 || !connected {
		return
	}

	_ = c.write(eventTyping, map[string]any{
		"chat_id":   chatID,
		"user":      c.Session.Current().User.DisplayName(),
		"is_typing": isTyping,
	})
}

// Events delivers decoded server events in arrival order. The channel closes
// when the connection ends; Err then reports why.
func (c *Channel) Events() <-chan Event { return c.events }

// Err reports why the channel went down, nil while it is up or after an
// intentional Close.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Connected reports whether the websocket is still up.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// ActiveChat is the current room id, zero before any snapshot arrived.
func (c *Channel) ActiveChat() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.ChatID()
}

// Messages is a copy of the active room's log.
func (c *Channel) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Messages()
}

// Close shuts the connection down without recording an error. Safe to call
// more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() {
		close(c.quit)
		c.mu.Lock()
		conn := c.conn
		c.connected = false
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
	})
	c.mu.Lock()
	started := c.conn != nil
	c.mu.Unlock()
	if started {
		<-c.done
	}
}

func (c *Channel) write(event string, data any) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.connected
	c.mu.Unlock()

	if conn == nil || !connected {
		return domain.ErrNotConnected
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s frame: %w", event, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(frame{Event: event, Data: encoded}); err != nil {
		return fmt.Errorf("write %s frame: %w", event, err)
	}
	return nil
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	defer close(c.done)
	defer close(c.events)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if c.connected {
				c.connected = false
				c.err = fmt.Errorf("chat connection lost: %w", err)
			}
			c.mu.Unlock()
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			// Unknown garbage is dropped, the connection survives.
			continue
		}

		if event, ok := c.decode(f); ok {
			select {
			case c.events <- event:
			case <-c.quit:
				return
			}
		}
	}
}

// decode turns a wire frame into a UI event and applies its side effects on
// the local log.
func (c *Channel) decode(f frame) (Event, bool) {
	switch f.Event {
	case eventCustomerChat, eventChatOpened:
		var payload snapshotPayload
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			return nil, false
		}
		snapshot := payload.toDomain()
		c.mu.Lock()
		c.log.Replace(snapshot)
		c.mu.Unlock()
		return SnapshotEvent{Snapshot: snapshot, NewChat: payload.NewChat}, true

	case eventMessage:
		var payload messagePayload
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			return nil, false
		}
		message := payload.toDomain()
		c.mu.Lock()
		if message.ChatID == c.log.ChatID() {
			c.log.Append(message)
		}
		c.mu.Unlock()
		return MessageEvent{Message: message}, true

	case eventChatsList:
		var payload struct {
			Chats []summaryPayload `json:"chats"`
		}
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			return nil, false
		}
		chats := make([]domain.ChatSummary, 0, len(payload.Chats))
		for _, s := range payload.Chats {
			chats = append(chats, domain.ChatSummary{
				ChatID:   s.ChatID,
				Customer: s.Customer,
				LastText: s.LastText,
				LastAt:   api.ParseTimestamp(s.LastTS),
			})
		}
		return RosterEvent{Chats: chats}, true

	case eventTypingStatus:
		var payload struct {
			ChatID int64    `json:"chat_id"`
			Users  []string `json:"users"`
		}
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			return nil, false
		}
		return TypingEvent{ChatID: payload.ChatID, Users: payload.Users}, true

	case eventDelivered:
		var payload struct {
			ChatID    int64 `json:"chat_id"`
			MessageID int64 `json:"message_id"`
		}
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			return nil, false
		}
		return DeliveredEvent{ChatID: payload.ChatID, MessageID: payload.MessageID}, true

	case eventNewChat:
		var payload struct {
			ChatID   int64  `json:"chat_id"`
			Customer string `json:"customer"`
		}
		if err := json.Unmarshal(f.Data, &payload); err != nil {
			return nil, false
		}
		return NewChatEvent{ChatID: payload.ChatID, Customer: payload.Customer}, true

	case eventConnected:
		return nil, false
	}

	return nil, false
}
