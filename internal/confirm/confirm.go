package confirm

//go:generate mockgen -package=mocks -destination=mocks/mock_confirmer.go github.com/KirkDiggler/foresight/internal/confirm Confirmer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Confirmer asks the operator to approve an outward-facing action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Prompt asks on a terminal and reads a y/N answer
type Prompt struct {
	mu      sync.Mutex
	in      *bufio.Reader
	out     io.Writer
	start   sync.Once
	answers chan answer
}

type answer struct {
	line string
	err  error
}

// NewPrompt creates a terminal confirmer
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out, answers: make(chan answer)}
}

// read is the only goroutine reading in. A cancelled Confirm leaves its
// pending line for the next one. The channel closes once in fails.
func (p *Prompt) read() {
	for {
		line, err := p.in.ReadString('\n')
		p.answers <- answer{line, err}
		if err != nil {
			close(p.answers)
			return
		}
	}
}

// Confirm prints prompt and waits for an answer. Anything but y/yes is a no.
func (p *Prompt) Confirm(ctx context.Context, prompt string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(p.out, "%s [y/N]: ", prompt); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	p.start.Do(func() { go p.read() })

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a, ok := <-p.answers:
		if !ok {
			return false, nil
		}
		if a.err != nil && !errors.Is(a.err, io.EOF) {
			return false, fmt.Errorf("failed to read answer: %w", a.err)
		}
		switch strings.ToLower(strings.TrimSpace(a.line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}

// Func adapts a function into a Confirmer
type Func func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f
func (f Func) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AutoApprove approves everything. For unattended runs the operator has opted into.
func AutoApprove() Confirmer {
	return Func(func(context.Context, string) (bool, error) { return true, nil })
}

// Deny declines everything
func Deny() Confirmer {
	return Func(func(context.Context, string) (bool, error) { return false, nil })
}
