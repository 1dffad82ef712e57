package utils

import (
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newKey(t *testing.T) []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatalf("could not generate key: %s", err.Error())
	}
	return key
}

func TestEncryptDecryptMessage(t *testing.T) {
	key := newKey(t)
	encrypted, err := EncryptMessage(key, "hello world")
	assert.Nil(t, err)
	assert.NotEqual(t, "hello world", encrypted)

	decrypted, err := DecryptMessage(key, encrypted)
	assert.Nil(t, err)
	assert.Equal(t, "hello world", *decrypted)
}

func TestDecryptMessageWrongKey(t *testing.T) {
	key := newKey(t)
	encrypted, err := EncryptMessage(key, "hello world")
	assert.Nil(t, err)

	other := newKey(t)
	_, err = DecryptMessage(other, encrypted)
	assert.NotNil(t, err)
}

func TestDecryptMessageGarbage(t *testing.T) {
	key := newKey(t)

	_, err := DecryptMessage(key, "not-even-hex")
	assert.NotNil(t, err)

	_, err = DecryptMessage(key, "abcd")
	assert.NotNil(t, err)
}

func TestTicketCodeRoundTrip(t *testing.T) {
	key := newKey(t)
	code, err := EncodeTicketCode(key, 42)
	assert.Nil(t, err)

	ticketId, err := DecodeTicketCode(key, code)
	assert.Nil(t, err)
	assert.Equal(t, uint(42), ticketId)
}

func TestTicketCodeRejectsForeignPayload(t *testing.T) {
	key := newKey(t)
	code, err := EncryptMessage(key, `{"something":"else"}`)
	assert.Nil(t, err)

	_, err = DecodeTicketCode(key, code)
	assert.NotNil(t, err)
}

func TestNewOrderNumber(t *testing.T) {
	a := NewOrderNumber()
	b := NewOrderNumber()

	assert.True(t, strings.HasPrefix(a, "TKT-"))
	assert.Len(t, a, 14)
	assert.NotEqual(t, a, b)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), MinorUnits(100))
	assert.Equal(t, int64(9999), MinorUnits(99.99))
	assert.Equal(t, int64(50), MinorUnits(0.5))
	assert.Equal(t, int64(1056), MinorUnits(10.555))
}

func TestParseEventTime(t *testing.T) {
	parsed, err := ParseEventTime("2026-10-01 18:30:00 +05:30")
	assert.Nil(t, err)
	assert.Equal(t, 18, parsed.Hour())
	assert.Equal(t, 30, parsed.Minute())

	_, err = ParseEventTime("October 1st")
	assert.NotNil(t, err)
}
