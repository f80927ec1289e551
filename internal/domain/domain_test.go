package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, OrderDelivered.Terminal())
	assert.True(t, OrderCancelled.Terminal())
	assert.False(t, OrderConfirmed.Terminal())
	assert.False(t, OrderPreparing.Terminal())
	assert.False(t, OrderReady.Terminal())
	assert.False(t, OrderPickedUp.Terminal())
}

func TestOrderStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, OrderPickedUp.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestUserDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "alice", User{Email: "alice@example.com"}.DisplayName())
	assert.Equal(t, "bob", User{Email: "bob"}.DisplayName())
	assert.Equal(t, "Carol", User{FirstName: "Carol"}.DisplayName())
}

func TestChatMessagePerspective(t *testing.T) {
	t.Parallel()

	customerMsg := ChatMessage{Role: RoleCustomer}
	employeeMsg := ChatMessage{Role: RoleEmployee}

	assert.True(t, customerMsg.Mine(RoleCustomer))
	assert.False(t, customerMsg.Mine(RoleEmployee))
	assert.True(t, employeeMsg.Mine(RoleEmployee))
	assert.False(t, employeeMsg.Mine(RoleCustomer))
}

func TestChatLogReplaceDiscardsPreviousMessages(t *testing.T) {
	t.Parallel()

	var log ChatLog
	log.Replace(ChatSnapshot{ChatID: 1, History: []ChatMessage{{ID: 1, Text: "old"}}})
	log.Append(ChatMessage{ID: 2, Text: "older still"})

	log.Replace(ChatSnapshot{ChatID: 2, History: []ChatMessage{{ID: 9, Text: "fresh"}}})

	msgs := log.Messages()
	assert.Equal(t, int64(2), log.ChatID())
	assert.Len(t, msgs, 1)
	assert.Equal(t, "fresh", msgs[0].Text)
}

func TestSessionAuthenticated(t *testing.T) {
	t.Parallel()

	assert.False(t, Session{}.Authenticated())
	assert.True(t, Session{AccessToken: "a"}.Authenticated())
	assert.True(t, Session{RefreshToken: "r"}.Authenticated())
}
