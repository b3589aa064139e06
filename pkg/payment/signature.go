package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadSignature covers every verification failure. Callers must not leak
// which part failed.
var ErrBadSignature = errors.New("payment: webhook signature verification failed")

// VerifySignature checks a provider webhook signature header of the form
//
//	t=<unix-ts>,v1=<hex hmac-sha256>
//
// where the signed payload is "<ts>.<raw body>". The timestamp must be within
// tolerance of now to bound replay.
func VerifySignature(payload []byte, header, secret string, tolerance time.Duration) error {
	return verifySignatureAt(payload, header, secret, tolerance, time.Now())
}

func verifySignatureAt(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" || secret == "" {
		return ErrBadSignature
	}

	var ts int64
	var sigs []string
	for _, part := range strings.Split(header, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrBadSignature
			}
			ts = parsed
		case "v1":
			sigs = append(sigs, v)
		}
	}

	if ts == 0 || len(sigs) == 0 {
		return ErrBadSignature
	}

	age := now.Sub(time.Unix(ts, 0))
	if age > tolerance || age < -tolerance {
		return ErrBadSignature
	}

	expected := ComputeSignature(payload, ts, secret)
	for _, sig := range sigs {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}

	return ErrBadSignature
}

// ComputeSignature returns the hex HMAC-SHA256 of "<ts>.<payload>".
func ComputeSignature(payload []byte, ts int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
