package transport

import (
	"context"
	"sync"

	"github.com/KirkDiggler/foresight/internal/common/clock"
	"github.com/KirkDiggler/foresight/internal/common/uuid"
)

// MemoryChannel is an in-process channel shared by any number of authors.
// It backs dry runs and tests.
type MemoryChannel struct {
	mu       sync.Mutex
	messages []Message
	ids      uuid.UUID
	clock    clock.Clock
	failures map[string][]error
}

// NewMemoryChannel creates an empty channel. Nil arguments use sequential IDs and the system clock.
func NewMemoryChannel(ids uuid.UUID, clk clock.Clock) *MemoryChannel {
	if ids == nil {
		ids = uuid.NewSequence("msg")
	}
	if clk == nil {
		clk = clock.New()
	}
	return &MemoryChannel{
		ids:      ids,
		clock:    clk,
		failures: make(map[string][]error),
	}
}

// As returns an adapter that posts as author
func (c *MemoryChannel) As(author Author) *Memory {
	return &Memory{channel: c, author: author}
}

// FailNext makes the next call of op ("post", "reply", "search", "latest") return err.
// Calls queue up; each failure is consumed once.
func (c *MemoryChannel) FailNext(op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[op] = append(c.failures[op], err)
}

// Messages returns a copy of everything posted so far
func (c *MemoryChannel) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Count returns how many messages author has posted
func (c *MemoryChannel) Count(authorID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, m := range c.messages {
		if m.Author.ID == authorID {
			n++
		}
	}
	return n
}

func (c *MemoryChannel) failure(op string) error {
	queue := c.failures[op]
	if len(queue) == 0 {
		return nil
	}
	c.failures[op] = queue[1:]
	return queue[0]
}

func (c *MemoryChannel) append(ctx context.Context, op string, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if msg.Text == "" {
		return "", ErrEmptyText
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.failure(op); err != nil {
		return "", err
	}
	if msg.ReplyTo != "" && !c.exists(msg.ReplyTo) {
		return "", ErrMessageNotFound
	}

	msg.ID = c.ids.NewUUID()
	msg.Timestamp = c.clock.Now()
	c.messages = append(c.messages, msg)
	return msg.ID, nil
}

func (c *MemoryChannel) exists(id string) bool {
	for _, m := range c.messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Memory is one author's view of a MemoryChannel
type Memory struct {
	channel *MemoryChannel
	author  Author
}

// Author returns who this adapter posts as
func (m *Memory) Author() Author {
	return m.author
}

// Post appends a message
func (m *Memory) Post(ctx context.Context, text string) (string, error) {
	return m.channel.append(ctx, "post", Message{Author: m.author, Text: text})
}

// PostWithImage appends a message with an image path attached
func (m *Memory) PostWithImage(ctx context.Context, text, imagePath string) (string, error) {
	return m.channel.append(ctx, "post", Message{Author: m.author, Text: text, ImagePath: imagePath})
}

// Reply appends a reply to parentID
func (m *Memory) Reply(ctx context.Context, parentID, text string) (string, error) {
	return m.channel.append(ctx, "reply", Message{Author: m.author, Text: text, ReplyTo: parentID})
}

// SearchReplies returns replies to parentID in posting order
func (m *Memory) SearchReplies(ctx context.Context, parentID string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := m.channel
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.failure("search"); err != nil {
		return nil, err
	}

	var out []Message
	for _, msg := range c.messages {
		if msg.ReplyTo == parentID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// LatestMessage returns the newest message by authorID
func (m *Memory) LatestMessage(ctx context.Context, authorID string) (*Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := m.channel
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.failure("latest"); err != nil {
		return nil, err
	}

	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Author.ID == authorID {
			msg := c.messages[i]
			return &msg, nil
		}
	}
	return nil, ErrMessageNotFound
}
