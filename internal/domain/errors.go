package domain

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyMessage     = errors.New("message text is empty")
	ErrNoActiveChat     = errors.New("no active chat")
	ErrNotConnected     = errors.New("chat channel not connected")
)
