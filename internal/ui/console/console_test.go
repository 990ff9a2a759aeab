package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"medibot/internal/app/apiclient"
	"medibot/internal/app/chat"
)

type fakeBackend struct {
	startErr error
	sent     []string
}

func (b *fakeBackend) StartConversation(context.Context) (apiclient.Conversation, error) {
	if b.startErr != nil {
		return apiclient.Conversation{}, b.startErr
	}
	return apiclient.Conversation{ID: "c1"}, nil
}

func (b *fakeBackend) Chat(_ context.Context, _ apiclient.Conversation, message string) (string, error) {
	b.sent = append(b.sent, message)
	return "echo: " + message, nil
}

func run(t *testing.T, backend *fakeBackend, input string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(strings.NewReader(input), &out, nil)
	require.NoError(t, c.Run(context.Background(), chat.NewController(backend, c)))
	return out.String()
}

func TestConsoleSession(t *testing.T) {
	backend := &fakeBackend{}
	out := run(t, backend, "hello\n\n   \nfirst line\\\nsecond line\n/quit\nignored\n")

	require.Equal(t, []string{"hello", "first line\nsecond line"}, backend.sent)

	greeting := strings.Index(out, "MediBot: "+chat.Greeting)
	user := strings.Index(out, "You: hello")
	reply := strings.Index(out, "MediBot: echo: hello")
	require.True(t, greeting >= 0 && greeting < user && user < reply, out)
	require.Contains(t, out, loadingText)
	require.NotContains(t, out, "ignored")
}

func TestConsoleEndsAfterApology(t *testing.T) {
	backend := &fakeBackend{startErr: errors.New("down")}
	out := run(t, backend, "hello\n")

	require.Empty(t, backend.sent)
	require.Equal(t, 1, strings.Count(out, "Sorry, I am unable to connect right now. Please try again later."))
	require.NotContains(t, out, "You: hello")
}

func TestConsoleEndOfInput(t *testing.T) {
	backend := &fakeBackend{}
	out := run(t, backend, "hi")

	require.Equal(t, []string{"hi"}, backend.sent)
	require.Contains(t, out, "MediBot: echo: hi")
}
