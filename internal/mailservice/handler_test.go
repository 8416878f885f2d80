package mailservice

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSendWelcomeEmail(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:     mockMC,
		m:      mockMailer,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}

	s.SendWelcomeEmail()

	assert.Eventually(t, func() bool {
		return mockMailer.IsCalled()
	}, 2*time.Second, 50*time.Millisecond, "expected the mailer to be called")

	assert.Equal(t, "test@example.com", mockMailer.GetEmail(), "expected email to be sent to the recipient")

	t.Cleanup(func() {
		s.Close()
	})
}
