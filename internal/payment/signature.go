package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentSignature は gatewayOrderID + "|" + paymentID のHMAC-SHA256（hex）。
func PaymentSignature(gatewayOrderID, paymentID, secret string) string {
	return signHex([]byte(gatewayOrderID+"|"+paymentID), secret)
}

// VerifyPaymentSignature はコールバックの署名を付け合わせる。比較は定数時間。
// 不一致の注文を paid にしてはいけない。
func VerifyPaymentSignature(gatewayOrderID, paymentID, signature, secret string) bool {
	expected := PaymentSignature(gatewayOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookSignature はリクエスト生ボディのHMAC-SHA256（hex）。
func WebhookSignature(body []byte, secret string) string {
	return signHex(body, secret)
}

// VerifyWebhookSignature はリクエスト生ボディに対するHMACヘッダを検証する。
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	expected := WebhookSignature(body, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func signHex(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
