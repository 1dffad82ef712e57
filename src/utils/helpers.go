package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"ngocms/src/config"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

func EncryptMessage(key []byte, message string) (string, error) {
	plaintext := []byte(message)

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	cipherText := gcm.Seal(nonce, nonce, plaintext, nil)
	encodedString := hex.EncodeToString(cipherText)

	return encodedString, nil
}

func DecryptMessage(key []byte, message string) (*string, error) {
	cipherText, err := hex.DecodeString(message)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(cipherText) < gcm.NonceSize() {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	decryptedData, err := gcm.Open(nil, cipherText[:gcm.NonceSize()], cipherText[gcm.NonceSize():], nil)
	if err != nil {
		return nil, err
	}
	decodedString := string(decryptedData)

	return &decodedString, nil
}

type ticketCodePayload struct {
	TicketID uint `json:"ticketId"`
}

// EncodeTicketCode wraps a ticket id in the encrypted payload that gets
// rendered into the ticket QR image.
func EncodeTicketCode(key []byte, ticketId uint) (string, error) {
	raw, err := json.Marshal(&ticketCodePayload{TicketID: ticketId})
	if err != nil {
		return "", err
	}
	return EncryptMessage(key, string(raw))
}

// DecodeTicketCode reverses EncodeTicketCode for a scanned payload.
func DecodeTicketCode(key []byte, code string) (uint, error) {
	message, err := DecryptMessage(key, code)
	if err != nil {
		return 0, err
	}
	var payload ticketCodePayload
	if err := json.Unmarshal([]byte(*message), &payload); err != nil {
		return 0, err
	}
	if payload.TicketID == 0 {
		return 0, errors.New("code carries no ticket reference")
	}
	return payload.TicketID, nil
}

func QRCodeKey() ([]byte, error) {
	keyEnv := os.Getenv("API_QRC_SECRET")
	return hex.DecodeString(keyEnv)
}

// NewOrderNumber mints a short human-readable ticket order number.
func NewOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("TKT-%s", id[:10])
}

// MinorUnits scales an amount to the gateway's minor-unit convention
// (rupees to paise).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func ParseEventTime(value string) (*time.Time, error) {
	t, err := time.Parse(config.TIME_PARSE_FORMAT, value)
	if err != nil {
		return nil, err
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
	return &t, nil
}

func IsProd() bool {
	return os.Getenv("API_ENV") == "production"
}
