package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"
)

func TestVerifyStripeWebhookSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	secret := "whsec_test"
	now := time.Now()

	valid := SignaturePayload(payload, secret, now)
	if !verifyStripeWebhookSignatureAt(payload, valid, secret, now) {
		t.Fatalf("expected signature to validate")
	}

	if verifyStripeWebhookSignatureAt(payload, valid, "whsec_other", now) {
		t.Fatalf("expected wrong secret to fail")
	}
	if verifyStripeWebhookSignatureAt([]byte(`{"tampered":true}`), valid, secret, now) {
		t.Fatalf("expected tampered payload to fail")
	}
	if verifyStripeWebhookSignatureAt(payload, "", secret, now) {
		t.Fatalf("expected empty header to fail")
	}
	if verifyStripeWebhookSignatureAt(payload, valid, "", now) {
		t.Fatalf("expected empty secret to fail")
	}
}

func TestVerifyStripeWebhookSignature_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_2"}`)
	secret := "whsec_test"
	signedAt := time.Now().Add(-10 * time.Minute)

	header := SignaturePayload(payload, secret, signedAt)
	if verifyStripeWebhookSignatureAt(payload, header, secret, time.Now()) {
		t.Fatalf("expected stale timestamp to fail")
	}
	if !verifyStripeWebhookSignatureAt(payload, header, secret, signedAt.Add(time.Minute)) {
		t.Fatalf("expected signature inside tolerance to validate")
	}
}

func TestVerifyStripeWebhookSignature_MultipleCandidates(t *testing.T) {
	payload := []byte(`{"id":"evt_3"}`)
	secret := "whsec_test"
	now := time.Now()

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", now.Unix())
	mac.Write(payload)
	good := hex.EncodeToString(mac.Sum(nil))

	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), good)
	if !verifyStripeWebhookSignatureAt(payload, header, secret, now) {
		t.Fatalf("expected one matching candidate to validate")
	}

	header = fmt.Sprintf("t=%d,v1=deadbeef", now.Unix())
	if verifyStripeWebhookSignatureAt(payload, header, secret, now) {
		t.Fatalf("expected mismatching candidate to fail")
	}
}
