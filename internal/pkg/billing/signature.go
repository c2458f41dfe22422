package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// signatureTolerance bounds how old a webhook timestamp may be before the
// signature is rejected as a possible replay.
const signatureTolerance = 5 * time.Minute

// VerifyStripeWebhookSignature checks a Stripe-Signature header of the form
// "t=<unix>,v1=<hex hmac>" against the raw payload and shared secret.
func VerifyStripeWebhookSignature(payload []byte, signatureHeader, webhookSecret string) bool {
	return verifyStripeWebhookSignatureAt(payload, signatureHeader, webhookSecret, time.Now())
}

func verifyStripeWebhookSignatureAt(payload []byte, signatureHeader, webhookSecret string, now time.Time) bool {
	header := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(webhookSecret)
	if header == "" || secret == "" {
		return false
	}

	var timestamp int64
	var candidates [][]byte
	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return false
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(strings.ToLower(v))
			if err != nil {
				continue
			}
			candidates = append(candidates, sig)
		}
	}
	if timestamp == 0 || len(candidates) == 0 {
		return false
	}

	age := now.Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	for _, candidate := range candidates {
		if hmac.Equal(expected, candidate) {
			return true
		}
	}
	return false
}

// SignaturePayload builds a valid Stripe-Signature header value for outbound
// test fixtures.
func SignaturePayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", at.Unix())
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}
