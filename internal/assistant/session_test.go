package assistant

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ba0f3/menurag/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSession(t *testing.T, a *Assistant, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	s := NewSession(a, strings.NewReader(input), &out, &errOut)
	require.Equal(t, AwaitingInput, s.State())
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, Terminated, s.State())
	return out.String(), errOut.String()
}

func TestIsQuit(t *testing.T) {
	for _, in := range []string{"quit", "QUIT", "Quit", "  quit\t"} {
		assert.True(t, IsQuit(in), in)
	}
	for _, in := range []string{"", "q", "exit", "quit now"} {
		assert.False(t, IsQuit(in), in)
	}
}

func TestSessionQuitImmediately(t *testing.T) {
	gen := &llmtest.Generator{}
	a := newTestAssistant(t, fullMenu, &llmtest.Embedder{}, gen)

	out, errOut := runSession(t, a, "QUIT\nburger\n")
	assert.Equal(t, Prompt, out)
	assert.Empty(t, errOut)
	assert.Empty(t, gen.Prompts)
}

func TestSessionOneReplyLinePerQuery(t *testing.T) {
	gen := &llmtest.Generator{Reply: "We have burgers."}
	a := newTestAssistant(t, burgerMenu, &llmtest.Embedder{}, gen)

	out, errOut := runSession(t, a, "Burger\nburger please\nquit\n")
	assert.Equal(t, Prompt+"We have burgers.\n"+Prompt+"We have burgers.\n"+Prompt, out)
	assert.Empty(t, errOut)
	assert.Len(t, gen.Prompts, 2)
}

func TestSessionBlankLinesSkipModels(t *testing.T) {
	emb := &llmtest.Embedder{}
	gen := &llmtest.Generator{}
	a := newTestAssistant(t, fullMenu, emb, gen)
	calls := emb.Calls

	out, _ := runSession(t, a, "\n   \nquit\n")
	assert.Equal(t, strings.Repeat(Prompt, 3), out)
	assert.Equal(t, calls, emb.Calls)
	assert.Empty(t, gen.Prompts)
}

func TestSessionEndOfInput(t *testing.T) {
	gen := &llmtest.Generator{Reply: "ok"}
	a := newTestAssistant(t, fullMenu, &llmtest.Embedder{}, gen)

	out, _ := runSession(t, a, "fries")
	assert.Equal(t, Prompt+"ok\n"+Prompt+"\n", out)
}

func TestSessionGenerationFailureContinues(t *testing.T) {
	gen := &llmtest.Generator{Err: errors.New("model crashed")}
	a := newTestAssistant(t, fullMenu, &llmtest.Embedder{}, gen)

	out, errOut := runSession(t, a, "fries\ntea\nquit\n")
	assert.Equal(t, Prompt+"\n"+Prompt+"\n"+Prompt, out)
	assert.Equal(t, 2, strings.Count(errOut, "Error (generation)"))
	assert.Contains(t, errOut, "model crashed")
}

func TestSessionRetrievalFailureContinues(t *testing.T) {
	emb := &llmtest.Embedder{}
	gen := &llmtest.Generator{}
	a := newTestAssistant(t, fullMenu, emb, gen)
	emb.Err = errors.New("embedding endpoint down")

	out, errOut := runSession(t, a, "pizza\nquit\n")
	assert.Equal(t, Prompt+"Sorry, no options found for pizza.\n"+Prompt, out)
	assert.Contains(t, errOut, "Error (retrieval)")
}

func TestSessionCanceledContext(t *testing.T) {
	a := newTestAssistant(t, fullMenu, &llmtest.Embedder{}, &llmtest.Generator{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	s := NewSession(a, strings.NewReader("burger\n"), &out, &out)
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
	assert.Empty(t, out.String())
}

func TestSessionFoldsMultiLineReply(t *testing.T) {
	gen := &llmtest.Generator{Reply: "We have:\n- Burger\r\n- Fries"}
	a := newTestAssistant(t, fullMenu, &llmtest.Embedder{}, gen)

	out, _ := runSession(t, a, "burger\nquit\n")
	assert.Equal(t, Prompt+"We have: - Burger - Fries\n"+Prompt, out)
}

func TestSessionLongLine(t *testing.T) {
	gen := &llmtest.Generator{Reply: "ok"}
	a := newTestAssistant(t, fullMenu, &llmtest.Embedder{}, gen)

	long := strings.Repeat("fries ", 40000)
	out, errOut := runSession(t, a, long+"\ntea\nquit\n")
	assert.Equal(t, Prompt+"ok\n"+Prompt+"ok\n"+Prompt, out)
	assert.Empty(t, errOut)
	assert.Len(t, gen.Prompts, 2)
}

func TestSessionCRLFInput(t *testing.T) {
	gen := &llmtest.Generator{Reply: "ok"}
	a := newTestAssistant(t, fullMenu, &llmtest.Embedder{}, gen)

	out, _ := runSession(t, a, "fries\r\nQUIT\r\n")
	assert.Equal(t, Prompt+"ok\n"+Prompt, out)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "plain", OneLine("plain"))
	assert.Equal(t, "a b c", OneLine("a\nb\r\nc\n"))
	assert.Equal(t, "", OneLine(""))
}
