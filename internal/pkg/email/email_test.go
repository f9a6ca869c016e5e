package email

import (
	"errors"
	"io"
	"net/smtp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPNotifier_SendStudentWelcome(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: 2525, From: "office@iams.local"}, zerolog.New(io.Discard))

	var gotAddr string
	var gotTo []string
	var gotMsg string
	n.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Equal(t, "office@iams.local", from)
		return nil
	}

	require.NoError(t, n.SendStudentWelcome("a@x.com", "Ada", "ENR-1", "Secret234"))
	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.Contains(t, gotMsg, "ENR-1")
	assert.Contains(t, gotMsg, "Secret234")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
}

func TestSMTPNotifier_SendFailure(t *testing.T) {
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.local", Port: 25}, zerolog.New(io.Discard))
	n.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := n.SendAdmissionDecision("a@x.com", "Ada", "BTECH-CS", "APPROVED")
	assert.ErrorContains(t, err, "refused")
}
