package srvsentry

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// recordingTransport keeps every event instead of sending it.
type recordingTransport struct {
	mu      sync.Mutex
	events  []*sentry.Event
	flushes int
}

func (t *recordingTransport) Configure(sentry.ClientOptions) {}

func (t *recordingTransport) SendEvent(event *sentry.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
}

func (t *recordingTransport) Flush(time.Duration) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushes++
	return true
}

func (t *recordingTransport) Flushes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushes
}

func (t *recordingTransport) Events() []*sentry.Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*sentry.Event(nil), t.events...)
}

func (t *recordingTransport) Messages() []string {
	var messages []string
	for _, event := range t.Events() {
		messages = append(messages, event.Message)
	}
	return messages
}

func newTestHub(t *testing.T) (*sentry.Hub, *recordingTransport) {
	t.Helper()
	transport := &recordingTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{
		SampleRate: 1.0,
		Transport:  transport,
	})
	require.NoError(t, err)
	return sentry.NewHub(client, sentry.NewScope()), transport
}

func newDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}

// recordingFactory builds clients that send into transport and stores the options they were given.
func recordingFactory(transport *recordingTransport, got *sentry.ClientOptions) ClientFactory {
	return func(opts sentry.ClientOptions) (*sentry.Client, error) {
		if got != nil {
			*got = opts
		}
		opts.Transport = transport
		return sentry.NewClient(opts)
	}
}
