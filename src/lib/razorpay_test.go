package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentSignatureDeterministic(t *testing.T) {
	a := PaymentSignature("order_abc", "pay_xyz", "secret")
	b := PaymentSignature("order_abc", "pay_xyz", "secret")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestPaymentSignatureKnownVector(t *testing.T) {
	// hex(hmac-sha256(key="secret", msg="order_abc|pay_xyz"))
	sig := PaymentSignature("order_abc", "pay_xyz", "secret")
	assert.Equal(t, "6c4490ce5c4839b0437f2b5dccb1fc7301518f94c6d1165b96d0903bfd33b2ae", sig)
}

func TestVerifyPaymentSignature(t *testing.T) {
	sig := PaymentSignature("order_abc", "pay_xyz", "secret")

	assert.True(t, VerifyPaymentSignature("order_abc", "pay_xyz", sig, "secret"))
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_other", sig, "secret"))
	assert.False(t, VerifyPaymentSignature("order_other", "pay_xyz", sig, "secret"))
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", sig, "wrong"))
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", "", "secret"))
}

func TestVerifyPaymentSignatureTamperedDigest(t *testing.T) {
	sig := PaymentSignature("order_abc", "pay_xyz", "secret")
	tampered := []byte(sig)
	if tampered[0] == 'a' {
		tampered[0] = 'b'
	} else {
		tampered[0] = 'a'
	}
	assert.False(t, VerifyPaymentSignature("order_abc", "pay_xyz", string(tampered), "secret"))
}
