package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_test"

func signedHeader(payload []byte, ts int64) string {
	return fmt.Sprintf("t=%d,v1=%s", ts, ComputeSignature(payload, ts, testSecret))
}

func TestVerifySignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	now := time.Unix(1700000000, 0)

	t.Run("valid signature accepted", func(t *testing.T) {
		header := signedHeader(payload, now.Unix())
		err := verifySignatureAt(payload, header, testSecret, 5*time.Minute, now)
		require.NoError(t, err)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), ComputeSignature(payload, now.Unix(), "other"))
		err := verifySignatureAt(payload, header, testSecret, 5*time.Minute, now)
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		header := signedHeader(payload, now.Unix())
		err := verifySignatureAt([]byte(`{"id":"evt_2"}`), header, testSecret, 5*time.Minute, now)
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		old := now.Add(-10 * time.Minute).Unix()
		header := signedHeader(payload, old)
		err := verifySignatureAt(payload, header, testSecret, 5*time.Minute, now)
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		err := verifySignatureAt(payload, "", testSecret, 5*time.Minute, now)
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("garbage header rejected", func(t *testing.T) {
		err := verifySignatureAt(payload, "not-a-signature", testSecret, 5*time.Minute, now)
		require.ErrorIs(t, err, ErrBadSignature)
	})

	t.Run("second v1 candidate accepted", func(t *testing.T) {
		header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), ComputeSignature(payload, now.Unix(), testSecret))
		err := verifySignatureAt(payload, header, testSecret, 5*time.Minute, now)
		require.NoError(t, err)
	})
}

func TestParseEvent(t *testing.T) {
	t.Run("settlement event", func(t *testing.T) {
		payload := []byte(`{
			"id": "evt_1",
			"type": "checkout.session.completed",
			"data": {"object": {
				"id": "cs_123",
				"payment_intent": "pi_456",
				"payment_status": "paid",
				"metadata": {"booking_id": "b-1"}
			}}
		}`)
		event, err := ParseEvent(payload)
		require.NoError(t, err)
		require.True(t, event.Settlement())
		require.Equal(t, "b-1", event.BookingID())
		require.Equal(t, "cs_123", event.Data.Object.ID)
		require.Equal(t, "pi_456", event.Data.Object.PaymentIntent)
	})

	t.Run("irrelevant event type", func(t *testing.T) {
		event, err := ParseEvent([]byte(`{"id":"evt_2","type":"invoice.created"}`))
		require.NoError(t, err)
		require.False(t, event.Settlement())
	})

	t.Run("missing id rejected", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{"type":"checkout.session.completed"}`))
		require.Error(t, err)
	})

	t.Run("invalid json rejected", func(t *testing.T) {
		_, err := ParseEvent([]byte(`{`))
		require.Error(t, err)
	})
}
