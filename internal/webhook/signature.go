// Package webhook は決済ゲートウェイからのwebhookの署名検証とイベント解析を行う。
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// 署名を載せるヘッダ
const SignatureHeader = "X-Razorpay-Signature"

var (
	ErrMissingSignature = errors.New("missing signature")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Sign は body の HMAC-SHA256 を hex で返す。
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify は生のbodyに対する署名が一致するときだけtrue。
// パース後に再シリアライズしたものではなく、受け取ったバイト列そのものを渡すこと。
func Verify(body []byte, signature string, secret string) bool {
	// hexをデコードしてからバイト列を定数時間で比べる。大文字小文字は問わない
	got, err := hex.DecodeString(signature)
	if err != nil || len(got) != sha256.Size {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Check は Verify に欠落チェックを足したもの。
func Check(body []byte, signature string, secret string) error {
	if strings.TrimSpace(signature) == "" {
		return ErrMissingSignature
	}
	if !Verify(body, signature, secret) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyPaymentSignature はcheckout完了時のコールバック署名を検証する。
// 署名対象は "order_id|payment_id"、鍵はAPIキーのsecret。
func VerifyPaymentSignature(orderID, paymentID, signature, keySecret string) bool {
	if orderID == "" || paymentID == "" {
		return false
	}
	return Verify([]byte(orderID+"|"+paymentID), signature, keySecret)
}
