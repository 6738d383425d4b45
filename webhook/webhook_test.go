package webhook_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lightningco/nodecore/webhook"
)

func TestSignMatchesRawHMAC(t *testing.T) {
	secret := "s"
	body := []byte(`{"type":"payment_received","amount":10000}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	require.Equal(t, want, webhook.Sign(secret, body))
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	secret := "s"
	body := []byte(`{"type":"payment_received","amount":10000}`)
	sig := webhook.Sign(secret, body)
	require.True(t, webhook.Verify(secret, body, sig))
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	secret := "s"
	body := []byte(`{"type":"payment_received","amount":10000}`)
	sig := webhook.Sign(secret, body)
	tampered := []byte(`{"type":"payment_received","amount":99999}`)
	require.False(t, webhook.Verify(secret, tampered, sig))
}
