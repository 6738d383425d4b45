// Package webhook signs and dispatches outbound event notifications.
// Grounded on the teacher's http/lsps5_webhook_receiver.go signature
// scheme (compute a MAC over the raw body, carry it in a header) swapped
// from zbase32/ECDSA to the HMAC-SHA-256/hex scheme spec.md §4.D and §8
// specify.
package webhook

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

const SignatureHeader = "X-Phoenix-Signature"

// Sign returns hex(HMAC-SHA-256(secret, body)), per spec.md §8's webhook
// signature property.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header is the correct signature for body under
// secret, using a constant-time comparison.
func Verify(secret string, body []byte, header string) bool {
	want := Sign(secret, body)
	return hmac.Equal([]byte(want), []byte(header))
}

// Dispatcher posts JSON event payloads to configured webhook URLs. Per
// spec.md §4.D: best-effort, no retries, failures isolated and logged.
type Dispatcher struct {
	secret string
	client *http.Client
	logger *zerolog.Logger
}

func NewDispatcher(secret string, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// Deliver POSTs payload (marshaled as JSON) to url with the signature
// header set, logging but not retrying on failure.
func (d *Dispatcher) Deliver(url string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error().Err(err).Str("url", url).Msg("failed to marshal webhook payload")
		return
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		d.logger.Error().Err(err).Str("url", url).Msg("failed to build webhook request")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(d.secret, body))

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn().Err(err).Str("url", url).Msg("webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		d.logger.Warn().Str("url", url).Int("status", resp.StatusCode).Msg("webhook endpoint returned an error status")
	}
}
