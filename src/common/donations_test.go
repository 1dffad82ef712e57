package common

import (
	"ngocms/src/db"
	"ngocms/src/lib"
	"ngocms/src/types"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var testDonationId = uuid.MustParse("9f1c7c2e-9f2d-4c0a-8a3a-0d2f6f1f4b2b")

func donationRow(status types.DonationStatus, orderId string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "amount", "currency", "status", "order_id"}).
		AddRow(testDonationId.String(), 500.0, "INR", string(status), orderId)
}

// A donation that already reached a terminal state is rejected before any
// gateway call is made.
func TestCreateGatewayOrderRejectsTerminalStates(t *testing.T) {
	cases := []struct {
		status types.DonationStatus
		want   error
	}{
		{types.DONATION_COMPLETED, ErrDonationCompleted},
		{types.DONATION_CANCELLED, ErrDonationCancelled},
		{types.DONATION_FAILED, ErrDonationFailed},
	}
	for _, c := range cases {
		d, mock := db.NewMockDB()
		db.NewDB(d)

		mock.ExpectQuery(`SELECT (.+) FROM "donations"`).
			WillReturnRows(donationRow(c.status, ""))

		_, _, err := CreateGatewayOrder(testDonationId, "INR", nil)
		assert.ErrorIs(t, err, c.want)
		assert.Nil(t, mock.ExpectationsWereMet())
	}
}

func TestSaveOrderReferenceSuccess(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "donations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := saveOrderReference(d, testDonationId, "order_abc", "INR")
	assert.Nil(t, err)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// If the donation leaves pending between the gateway call and the update, the
// conditional write affects zero rows and the order must not be returned. The
// re-read reports the state the donation actually reached.
func TestSaveOrderReferenceLosesRace(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "donations"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "donations"`).
		WillReturnRows(donationRow(types.DONATION_CANCELLED, ""))

	err := saveOrderReference(d, testDonationId, "order_abc", "INR")
	assert.ErrorIs(t, err, ErrDonationCancelled)
	assert.Nil(t, mock.ExpectationsWereMet())
}

// A valid callback for a donation that was swept to cancelled in the meantime
// reports the cancellation, not a phantom completion.
func TestVerifyPaymentLosesRaceToSweep(t *testing.T) {
	d, mock := db.NewMockDB()
	db.NewDB(d)

	os.Setenv("RAZORPAY_KEY_SECRET", "secret")
	defer os.Unsetenv("RAZORPAY_KEY_SECRET")
	signature := lib.PaymentSignature("order_abc", "pay_xyz", "secret")

	mock.ExpectQuery(`SELECT (.+) FROM "donations"`).
		WillReturnRows(donationRow(types.DONATION_PENDING, "order_abc"))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "donations"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "donations"`).
		WillReturnRows(donationRow(types.DONATION_CANCELLED, "order_abc"))

	donation, err := VerifyPayment("order_abc", "pay_xyz", signature)
	assert.ErrorIs(t, err, ErrDonationCancelled)
	assert.NotNil(t, donation)
	assert.Equal(t, types.DONATION_CANCELLED, donation.Status)
	assert.Nil(t, mock.ExpectationsWereMet())
}
