package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec_test_123"

func TestSign_MatchesHMACSHA256Hex(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, Sign(body, secret))
	assert.Len(t, Sign(body, secret), 64)
}

func TestVerify_AcceptsExactSignatureOnly(t *testing.T) {
	bodies := [][]byte{
		[]byte(``),
		[]byte(`{}`),
		[]byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`),
		[]byte("\x00\xffbinary"),
	}

	for _, body := range bodies {
		sig := Sign(body, secret)
		assert.True(t, Verify(body, sig, secret))
		assert.False(t, Verify(body, sig, secret+"x"), "other secret must not verify")
		assert.False(t, Verify(append([]byte{' '}, body...), sig, secret), "different body must not verify")
	}
}

func TestVerify_RejectsEverySingleByteMutation(t *testing.T) {
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_xyz","amount":350000}}}}`)
	sig := Sign(body, secret)

	for i := range sig {
		b := []byte(sig)
		if b[i] == '0' {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
		assert.False(t, Verify(body, string(b), secret), "mutated index %d", i)
	}

	for i := range body {
		b := append([]byte(nil), body...)
		b[i] ^= 0x01
		assert.False(t, Verify(b, sig, secret), "mutated body index %d", i)
	}
}

func TestVerify_HexCaseInsensitive(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	sig := Sign(body, secret)

	assert.True(t, Verify(body, strings.ToUpper(sig), secret))
	assert.True(t, Verify(body, strings.ToUpper(sig[:32])+sig[32:], secret))
	assert.False(t, Verify(body, strings.ToUpper(sig), secret+"x"))
	require.NoError(t, Check(body, strings.ToUpper(sig), secret))
}

func TestVerify_RejectsMalformedSignatures(t *testing.T) {
	body := []byte(`{}`)
	sig := Sign(body, secret)

	cases := map[string]string{
		"empty":      "",
		"truncated":  sig[:63],
		"too long":   sig + "0",
		"whitespace": " " + sig[1:],
		"not hex":    strings.Repeat("z", 64),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			assert.False(t, Verify(body, s, secret))
		})
	}
}

func TestCheck(t *testing.T) {
	body := []byte(`{}`)

	assert.ErrorIs(t, Check(body, "", secret), ErrMissingSignature)
	assert.ErrorIs(t, Check(body, "   ", secret), ErrMissingSignature)
	assert.ErrorIs(t, Check(body, "deadbeef", secret), ErrInvalidSignature)
	require.NoError(t, Check(body, Sign(body, secret), secret))
}

func TestVerifyPaymentSignature(t *testing.T) {
	sig := Sign([]byte("order_abc123|pay_xyz"), "key_secret")

	assert.True(t, VerifyPaymentSignature("order_abc123", "pay_xyz", sig, "key_secret"))
	assert.False(t, VerifyPaymentSignature("order_abc123", "pay_other", sig, "key_secret"))
	assert.False(t, VerifyPaymentSignature("", "pay_xyz", sig, "key_secret"))
}
