package confirm

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptAnswers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrompt(strings.NewReader(tt.input), &out)

		got, err := p.Confirm(context.Background(), "Open round?")
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
		assert.Equal(t, "Open round? [y/N]: ", out.String())
	}
}

func TestPromptHonoursCancellation(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPrompt(r, io.Discard).Confirm(ctx, "Open round?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptAnswersAfterTimedOutPrompt(t *testing.T) {
	r, w := io.Pipe()
	p := NewPrompt(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Confirm(ctx, "Open round?")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() {
		_, _ = w.Write([]byte("y\n"))
	}()
	ok, err := p.Confirm(context.Background(), "Close commitments?")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, w.Close())
	ok, err = p.Confirm(context.Background(), "Open reveals?")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Confirm(context.Background(), "Score round?")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPolicies(t *testing.T) {
	ok, err := AutoApprove().Confirm(context.Background(), "x")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Deny().Confirm(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ok)
}
