package notify

import "testing"

func TestFromNameOrDefault(t *testing.T) {
	if got := fromNameOrDefault(""); got != "Editmelo Studio" {
		t.Errorf("empty name: got %q", got)
	}
	if got := fromNameOrDefault("Studio Ops"); got != "Studio Ops" {
		t.Errorf("explicit name overridden: got %q", got)
	}
}

func TestUnconfiguredSendersAreNil(t *testing.T) {
	if s := NewSendGridSender(SendGridConfig{}, nil); s != nil {
		t.Error("sendgrid sender without API key should be nil")
	}
	if s := NewSESSender(nil, SESConfig{}, nil); s != nil {
		t.Error("SES sender without client should be nil")
	}
}
