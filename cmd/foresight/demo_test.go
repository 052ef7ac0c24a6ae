package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "foresight",
		Writer:    out,
		ErrWriter: io.Discard,
		Reader:    strings.NewReader(""),
		Commands:  []*cli.Command{newDemoCommand()},
	}
}

func TestDemoPlaysRoundToFinished(t *testing.T) {
	var out bytes.Buffer
	err := newTestApp(&out).RunContext(context.Background(), []string{"foresight", "demo", "--miners", "3", "--seed", "7"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "CommitmentsOpen")
	assert.Contains(t, text, "RevealsOpen")
	assert.Contains(t, text, "Finished")
	assert.Contains(t, text, "RANK")
	assert.Equal(t, 3, strings.Count(text, " committed \""))
	assert.Contains(t, text, "#foresight")
}

func TestDemoNeedsTwoMiners(t *testing.T) {
	err := newTestApp(io.Discard).RunContext(context.Background(), []string{"foresight", "demo", "--miners", "1"})
	assert.Error(t, err)
}

func TestDemoRejectsUnknownStrategy(t *testing.T) {
	err := newTestApp(io.Discard).RunContext(context.Background(), []string{"foresight", "demo", "--strategy", "made_up"})
	assert.Error(t, err)
}
