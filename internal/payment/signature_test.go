package payment_test

import (
	"testing"

	"app/internal/payment"

	"github.com/stretchr/testify/assert"
)

func TestPaymentSignature_KnownVector(t *testing.T) {
	// HMAC-SHA256("order_abc|pay_xyz", key="secret") のhex（別実装で事前計算した値）
	const want = "6c4490ce5c4839b0437f2b5dccb1fc7301518f94c6d1165b96d0903bfd33b2ae"

	sig := payment.PaymentSignature("order_abc", "pay_xyz", "secret")
	assert.Equal(t, want, sig)
	assert.True(t, payment.VerifyPaymentSignature("order_abc", "pay_xyz", want, "secret"))
}

func TestVerifyPaymentSignature_RejectsTamperedFields(t *testing.T) {
	sig := payment.PaymentSignature("order_abc", "pay_xyz", "secret")

	// いずれか1つでも違えば不一致
	assert.False(t, payment.VerifyPaymentSignature("order_abd", "pay_xyz", sig, "secret"))
	assert.False(t, payment.VerifyPaymentSignature("order_abc", "pay_xyw", sig, "secret"))
	assert.False(t, payment.VerifyPaymentSignature("order_abc", "pay_xyz", sig, "other"))
	assert.False(t, payment.VerifyPaymentSignature("order_abc", "pay_xyz", sig+"0", "secret"))
	assert.False(t, payment.VerifyPaymentSignature("order_abc", "pay_xyz", "", "secret"))
}

func TestVerifyPaymentSignature_SeparatorMatters(t *testing.T) {
	// "a|bc" と "ab|c" を同一視してはいけない
	sig := payment.PaymentSignature("a", "bc", "secret")
	assert.False(t, payment.VerifyPaymentSignature("ab", "c", sig, "secret"))
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	valid := payment.WebhookSignature(body, "whsec")

	assert.True(t, payment.VerifyWebhookSignature(body, valid, "whsec"))

	// ボディが1バイトでも変われば不一致
	assert.False(t, payment.VerifyWebhookSignature(append(body, ' '), valid, "whsec"))
	// 別のシークレットでは不一致
	assert.False(t, payment.VerifyWebhookSignature(body, valid, "other"))
}
