package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMagicLinkURLPrefersRedirectTarget(t *testing.T) {
	link := magicLinkURL("http://localhost:5173", "https://hub.example.com/", "abc123")
	assert.Equal(t, "https://hub.example.com/auth/callback?token=abc123", link)
}

func TestMagicLinkURLFallsBackToClientURL(t *testing.T) {
	link := magicLinkURL("http://localhost:5173", "", "abc123")
	assert.Equal(t, "http://localhost:5173/auth/callback?token=abc123", link)
}
