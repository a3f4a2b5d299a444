// Package notify keeps ephemeral per-user feedback messages. Messages
// expire after a bounded lifetime and are pruned on read; nothing here is
// a durable log or a queue.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// DefaultTTL bounds a message's lifetime. Long enough to survive until the
// client's next poll, short enough to stay ephemeral.
const DefaultTTL = 30 * time.Second

type Message struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Text      string    `json:"message"`
	Type      Type      `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Center struct {
	mu       sync.Mutex
	ttl      time.Duration
	messages []Message
}

func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{ttl: ttl}
}

// Push records a message for one user.
func (c *Center) Push(userID uuid.UUID, text string, typ Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, Message{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		Type:      typ,
		ExpiresAt: time.Now().Add(c.ttl),
	})
}

// Active returns the user's unexpired messages, pruning everything that
// has expired for any user. Never returns nil.
func (c *Center) Active(userID uuid.UUID) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	kept := c.messages[:0]
	out := []Message{}
	for _, m := range c.messages {
		if now.After(m.ExpiresAt) {
			continue
		}
		kept = append(kept, m)
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	c.messages = kept
	return out
}

// Clear drops all of one user's messages, used at logout.
func (c *Center) Clear(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.messages[:0]
	for _, m := range c.messages {
		if m.UserID != userID {
			kept = append(kept, m)
		}
	}
	c.messages = kept
}
