package common

import (
	"errors"
	"log"
	"ngocms/src/db"
	"ngocms/src/lib"
	"ngocms/src/models"
	"ngocms/src/types"
	"ngocms/src/utils"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDonationNotFound  = errors.New("Donation not found")
	ErrDonationCompleted = errors.New("Donation already completed")
	ErrDonationCancelled = errors.New("Donation cancelled")
	ErrDonationFailed    = errors.New("Donation payment failed")
	ErrSignatureMismatch = errors.New("Payment verification failed")
)

// donationStateError maps a terminal donation status to its sentinel. Returns
// nil while the donation is still pending.
func donationStateError(status types.DonationStatus) error {
	switch status {
	case types.DONATION_COMPLETED:
		return ErrDonationCompleted
	case types.DONATION_CANCELLED:
		return ErrDonationCancelled
	case types.DONATION_FAILED:
		return ErrDonationFailed
	}
	return nil
}

func CreateDonation(body *types.CreateDonationRequestBody) (*uuid.UUID, error) {
	dtype := types.DonationType(body.Type)
	switch dtype {
	case types.DONATION_ONE_TIME, types.DONATION_MONTHLY, types.DONATION_SPONSORSHIP:
	case "":
		dtype = types.DONATION_ONE_TIME
	default:
		return nil, errors.New("unknown donation type")
	}
	donation := models.Donation{
		DonorName:  body.DonorName,
		DonorEmail: body.DonorEmail,
		DonorPhone: body.DonorPhone,
		Amount:     body.Amount,
		Type:       dtype,
		Status:     types.DONATION_PENDING,
		Anonymous:  body.Anonymous,
		Message:    body.Message,
	}
	db := db.GetDb()
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&donation).Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		log.Printf("Error creating Donation: %s\n", err.Error())
		return nil, err
	}
	return &donation.ID, nil
}

// GetDonationForCheckout returns the donor-facing projection. A completed
// donation is a conflict: the client must not be offered a second payment.
func GetDonationForCheckout(id uuid.UUID) (*models.DonorView, error) {
	var donation models.Donation
	db := db.GetDb()
	if err := db.Where("id = ?", id).First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	if donation.Status == types.DONATION_COMPLETED {
		return nil, ErrDonationCompleted
	}
	return donation.DonorView(), nil
}

// CreateGatewayOrder requests a payment order from the gateway for a pending
// donation, scaling the amount to minor units. Fails loudly with no partial
// state when credentials are absent or the gateway errors.
func CreateGatewayOrder(donationId uuid.UUID, currency string, notes map[string]any) (string, int64, error) {
	var donation models.Donation
	db := db.GetDb()
	if err := db.Where("id = ?", donationId).First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", 0, ErrDonationNotFound
		}
		return "", 0, err
	}
	if err := donationStateError(donation.Status); err != nil {
		return "", 0, err
	}
	if currency == "" {
		currency = donation.Currency
	}

	rc, err := lib.GetRazorpayClient()
	if err != nil {
		log.Printf("Error retrieving gateway client: %s\n", err.Error())
		return "", 0, err
	}
	amount := utils.MinorUnits(donation.Amount)
	data := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  donation.ID.String(),
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	order, err := rc.Order.Create(data, nil)
	if err != nil {
		log.Printf("Error creating gateway order for Donation [%s]: %s\n", donationId.String(), err.Error())
		return "", 0, err
	}
	orderId, ok := order["id"].(string)
	if !ok || orderId == "" {
		return "", 0, errors.New("gateway returned no order id")
	}

	if err := saveOrderReference(db, donationId, orderId, currency); err != nil {
		log.Printf("Error saving order reference for Donation [%s]: %s\n", donationId.String(), err.Error())
		return "", 0, err
	}
	return orderId, amount, nil
}

// saveOrderReference pins the gateway order id onto the donation, conditional
// on it still being pending. A zero-row update means the donation left pending
// while the order was being created; the order must not be handed to the
// client, so the real terminal state is surfaced instead.
func saveOrderReference(tx *gorm.DB, donationId uuid.UUID, orderId, currency string) error {
	res := tx.
		Model(&models.Donation{}).
		Where("id = ? AND status = ?", donationId, types.DONATION_PENDING).
		Updates(&models.Donation{OrderID: &orderId, Currency: currency})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var donation models.Donation
		if err := tx.Where("id = ?", donationId).First(&donation).Error; err != nil {
			return err
		}
		if err := donationStateError(donation.Status); err != nil {
			return err
		}
		return errors.New("Donation is no longer pending")
	}
	return nil
}

// failOnMismatch controls whether a failed signature check moves the donation
// to failed or leaves it pending for a retry.
func failOnMismatch() bool {
	v, err := strconv.ParseBool(os.Getenv("DONATION_FAIL_ON_MISMATCH"))
	return err == nil && v
}

// VerifyPayment recomputes the HMAC over orderId|paymentId and, on a match,
// finalizes the donation with a conditional pending→completed update. Exactly
// one of two concurrent callbacks for the same order can win; the loser sees
// ErrDonationCompleted. A completed donation is never altered.
func VerifyPayment(orderId, paymentId, signature string) (*models.Donation, error) {
	var donation models.Donation
	db := db.GetDb()
	if err := db.Where("order_id = ?", orderId).First(&donation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, err
	}
	if err := donationStateError(donation.Status); err != nil {
		return &donation, err
	}

	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if secret == "" {
		return nil, lib.ErrGatewayCredentials
	}
	if !lib.VerifyPaymentSignature(orderId, paymentId, signature, secret) {
		log.Printf("Signature mismatch on payment callback for order [%s]\n", orderId)
		if failOnMismatch() {
			if err := db.
				Model(&models.Donation{}).
				Where("order_id = ? AND status = ?", orderId, types.DONATION_PENDING).
				Update("status", types.DONATION_FAILED).
				Error; err != nil {
				log.Printf("Error updating Donation for order [%s]: %s\n", orderId, err.Error())
			}
		}
		return nil, ErrSignatureMismatch
	}

	res := db.
		Model(&models.Donation{}).
		Where("order_id = ? AND status = ?", orderId, types.DONATION_PENDING).
		Updates(&models.Donation{
			Status:    types.DONATION_COMPLETED,
			PaymentID: &paymentId,
			Signature: &signature,
		})
	if res.Error != nil {
		log.Printf("Error finalizing Donation for order [%s]: %s\n", orderId, res.Error.Error())
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race: somebody else moved the donation out of pending
		if err := db.Where("order_id = ?", orderId).First(&donation).Error; err != nil {
			return nil, err
		}
		if err := donationStateError(donation.Status); err != nil {
			return &donation, err
		}
		return &donation, ErrDonationCompleted
	}
	donation.Status = types.DONATION_COMPLETED
	donation.PaymentID = &paymentId
	donation.Signature = &signature
	return &donation, nil
}

// SweepStalePendingDonations cancels pending donations older than ttl.
// Scheduled from boot; a zero ttl disables the sweep.
func SweepStalePendingDonations(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	cutoff := time.Now().Add(-ttl)
	db := db.GetDb()
	res := db.
		Model(&models.Donation{}).
		Where("status = ? AND created_at < ?", types.DONATION_PENDING, cutoff).
		Update("status", types.DONATION_CANCELLED)
	if res.Error != nil {
		log.Printf("Error sweeping stale Donations: %s\n", res.Error.Error())
		return
	}
	if res.RowsAffected > 0 {
		log.Printf("Cancelled %d stale pending Donations\n", res.RowsAffected)
	}
}
