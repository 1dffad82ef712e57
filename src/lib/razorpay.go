package lib

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"

	razorpay "github.com/razorpay/razorpay-go"
)

var razorpayClient *razorpay.Client

var ErrGatewayCredentials = errors.New("payment gateway credentials are not configured")

func GetRazorpayClient() (*razorpay.Client, error) {
	if razorpayClient != nil {
		return razorpayClient, nil
	}
	keyId := os.Getenv("RAZORPAY_KEY_ID")
	keySecret := os.Getenv("RAZORPAY_KEY_SECRET")
	if keyId == "" || keySecret == "" {
		return nil, ErrGatewayCredentials
	}
	rc := razorpay.NewClient(keyId, keySecret)
	razorpayClient = rc
	return rc, nil
}

// NewRazorpayClient Replace gateway instance with custom client implementation
func NewRazorpayClient(c *razorpay.Client) {
	razorpayClient = c
}

// PaymentSignature computes the callback digest over orderId + "|" + paymentId
// keyed with the gateway shared secret.
func PaymentSignature(orderId, paymentId, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderId + "|" + paymentId))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature recomputes the digest and compares in constant time.
func VerifyPaymentSignature(orderId, paymentId, signature, secret string) bool {
	expected := PaymentSignature(orderId, paymentId, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
