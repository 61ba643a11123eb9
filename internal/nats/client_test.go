package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gencraft/chat-api/pkg/logger"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"ok", Config{URL: "nats://localhost:4222"}, ""},
		{"mtls", Config{URL: "tls://nats:4222", CAFile: "ca.pem", CertFile: "c.pem", KeyFile: "k.pem"}, ""},
		{"no url", Config{}, "URL is required"},
		{"cert without key", Config{URL: "nats://x", CertFile: "c.pem"}, "must be set together"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfigOptions(t *testing.T) {
	log := logger.NewNop()
	base := len(Config{URL: "nats://x"}.options(log))
	full := len(Config{URL: "nats://x", CAFile: "ca", CertFile: "c", KeyFile: "k", Token: "t"}.options(log))
	assert.Equal(t, base+3, full)
}

func TestConnectRejectsInvalidConfig(t *testing.T) {
	_, err := Connect(context.Background(), Config{}, logger.NewNop())
	assert.Error(t, err)
}

func TestNilClientIsDisconnected(t *testing.T) {
	var c *Client
	assert.False(t, c.IsConnected())
	c.Close()
}
