// Package notify fans a confirmed booking out to the patient's WhatsApp and
// to clinic/patient email, best effort. Channel failures never reach the
// booking path; they are logged and reported as boolean flags.
package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageSender delivers a templated message to a patient phone number and
// returns the provider's message identifier.
type MessageSender interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// TwilioConfig holds the WhatsApp channel credentials. Any empty credential
// field means the channel is unconfigured.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string        // E.164, without the whatsapp: prefix
	Timeout    time.Duration // per-send HTTP timeout, defaults to 5s
}

// TwilioWhatsAppSender sends WhatsApp messages through the Twilio Messages
// API using whatsapp:-prefixed addresses.
type TwilioWhatsAppSender struct {
	create func(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
	from   string
}

// NewTwilioWhatsAppSender returns nil when the channel is unconfigured, which
// the dispatcher treats as a silent no-op.
func NewTwilioWhatsAppSender(cfg TwilioConfig) *TwilioWhatsAppSender {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChannelTimeout
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	client.SetTimeout(cfg.Timeout)

	return &TwilioWhatsAppSender{
		create: client.Api.CreateMessage,
		from:   whatsAppAddress(cfg.FromNumber),
	}
}

func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// Send races the Twilio call against the context so the dispatcher's
// per-channel deadline holds even if the provider hangs.
func (s *TwilioWhatsAppSender) Send(ctx context.Context, to, body string) (string, error) {
	params := &openapi.CreateMessageParams{}
	params.SetTo(whatsAppAddress(to))
	params.SetFrom(s.from)
	params.SetBody(body)

	type outcome struct {
		resp *openapi.ApiV2010Message
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		resp, err := s.create(params)
		done <- outcome{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("twilio create message: %w", ctx.Err())
	case out := <-done:
		if out.err != nil {
			return "", fmt.Errorf("twilio create message: %w", out.err)
		}
		if out.resp.Sid == nil {
			log.Printf("twilio accepted message to %s but returned no SID", to)
			return "", nil
		}
		return *out.resp.Sid, nil
	}
}

var _ MessageSender = (*TwilioWhatsAppSender)(nil)
