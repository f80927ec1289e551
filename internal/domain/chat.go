package domain

import "time"

// ChatMessage is one entry in a chat room's log. Messages are appended in
// arrival order; the client never reorders or deduplicates them.
type ChatMessage struct {
	ID     int64
	ChatID int64
	Sender string
	Role   Role
	Text   string
	SentAt time.Time
}

// Mine reports whether the message should render as the viewer's own bubble.
// The mapping is symmetric but perspective-dependent: a customer sees
// customer messages as theirs, an employee sees employee messages as theirs.
func (m ChatMessage) Mine(viewer Role) bool {
	return m.Role == viewer
}

// ChatSummary is one row of the employee-side roster of open chats.
type ChatSummary struct {
	ChatID   int64
	Customer string
	LastText string
	LastAt   time.Time
}

// ChatSnapshot is the server's full history for a room, delivered on
// handshake or when an employee opens a chat. It replaces the local log.
type ChatSnapshot struct {
	ChatID  int64
	History []ChatMessage
}

// ChatLog is the ordered message log for the active room. Replace installs a
// server snapshot wholesale; Append records arrivals. No merging happens when
// the active room switches.
type ChatLog struct {
	chatID   int64
	messages []ChatMessage
}

func (l *ChatLog) ChatID() int64 { return l.chatID }

func (l *ChatLog) Replace(snapshot ChatSnapshot) {
	l.chatID = snapshot.ChatID
	l.messages = append([]ChatMessage(nil), snapshot.History...)
}

func (l *ChatLog) Append(m ChatMessage) {
	l.messages = append(l.messages, m)
}

func (l *ChatLog) Messages() []ChatMessage {
	return append([]ChatMessage(nil), l.messages...)
}
