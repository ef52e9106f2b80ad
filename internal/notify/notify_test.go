package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agridynamic/internal/worker"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg Message) error {
	return m.Called(ctx, msg).Error(0)
}

type inlineTasks struct {
	errs []error
}

func (d *inlineTasks) Submit(_ string, task worker.Task) bool {
	if err := task(context.Background()); err != nil {
		d.errs = append(d.errs, err)
	}
	return true
}

func TestNotifier_Notify(t *testing.T) {
	msg := Message{To: "admin@example.org", Subject: "New enquiry", Text: "hello"}

	t.Run("delivers through the dispatcher", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send", mock.Anything, msg).Return(nil).Once()
		tasks := &inlineTasks{}

		NewNotifier(sender, tasks, nil).Notify(msg)

		sender.AssertExpectations(t)
		assert.Empty(t, tasks.errs)
	})

	t.Run("failure is kept away from the caller", func(t *testing.T) {
		sender := new(MockSender)
		sender.On("Send", mock.Anything, msg).Return(errors.New("relay down"))
		tasks := &inlineTasks{}

		assert.NotPanics(t, func() { NewNotifier(sender, tasks, nil).Notify(msg) })
		require.Len(t, tasks.errs, 1)
	})

	t.Run("disabled without sender", func(t *testing.T) {
		tasks := &inlineTasks{}
		n := NewNotifier(nil, tasks, nil)

		n.Notify(msg)

		assert.False(t, n.Enabled())
		assert.Empty(t, tasks.errs)
	})

	t.Run("skips empty recipient", func(t *testing.T) {
		sender := new(MockSender)
		NewNotifier(sender, &inlineTasks{}, nil).Notify(Message{Subject: "x"})
		sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestBuildMessage(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		msg     Message
		wantErr bool
	}{
		{"plain and html", "site@example.org", Message{To: "a@b.org", Subject: "Hi", Text: "t", HTML: "<p>t</p>"}, false},
		{"text only", "site@example.org", Message{To: "a@b.org", Subject: "Hi", Text: "t"}, false},
		{"bad sender", "not an address", Message{To: "a@b.org"}, true},
		{"bad recipient", "site@example.org", Message{To: "nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := buildMessage(tt.from, tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var buf bytes.Buffer
			_, err = m.WriteTo(&buf)
			require.NoError(t, err)
			assert.Contains(t, buf.String(), "Subject: "+tt.msg.Subject)
		})
	}
}

func TestNewSMTPSender(t *testing.T) {
	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.org", Port: 587, Username: "u", Password: "p", From: "u@example.org"})
	require.NoError(t, err)
	assert.Equal(t, "u@example.org", s.from)
}
