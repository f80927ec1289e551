package chat

import (
	"sync"
	"time"
)

// DefaultTypingQuiet is how long the input must stay idle before the typing
// indicator is withdrawn.
const DefaultTypingQuiet = 800 * time.Millisecond

// TypingNotifier debounces keystrokes into at most one typing-started signal
// per burst, followed by one typing-stopped signal after the input goes
// quiet. Notify is called off the caller's goroutine when the quiet timer
// fires and inline on the first keystroke.
type TypingNotifier struct {
	Quiet  time.Duration
	Notify func(isTyping bool)

	mu     sync.Mutex
	active bool
	timer  *time.Timer
}

func NewTypingNotifier(notify func(isTyping bool)) *TypingNotifier {
	return &TypingNotifier{Quiet: DefaultTypingQuiet, Notify: notify}
}

// Keystroke records one input event. The first keystroke of a burst signals
// typing started; every keystroke pushes the quiet deadline out.
func (n *TypingNotifier) Keystroke() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.active {
		n.active = true
		n.Notify(true)
	}

	quiet := n.Quiet
	if quiet <= 0 {
		quiet = DefaultTypingQuiet
	}

	if n.timer != nil {
		n.timer.Stop()
	}
	n.timer = time.AfterFunc(quiet, n.quietElapsed)
}

func (n *TypingNotifier) quietElapsed() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.active {
		return
	}
	n.active = false
	n.Notify(false)
}

// Stop withdraws the indicator immediately, for when the message is sent or
// the input is abandoned.
func (n *TypingNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
	}
	if n.active {
		n.active = false
		n.Notify(false)
	}
}
