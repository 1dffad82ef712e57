package models

import (
	"ngocms/src/types"

	"github.com/google/uuid"
)

type Donation struct {
	ID         uuid.UUID            `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	DonorName  string               `json:"donor_name,omitempty"`
	DonorEmail string               `json:"donor_email,omitempty"`
	DonorPhone string               `json:"donor_phone,omitempty"`
	Amount     float64              `json:"amount"`
	Currency   string               `gorm:"default:'INR'" json:"currency,omitempty"`
	Type       types.DonationType   `gorm:"default:'one_time'" json:"type,omitempty"`
	Status     types.DonationStatus `gorm:"default:'pending';index" json:"status,omitempty"`
	Anonymous  bool                 `json:"anonymous,omitempty"`
	Message    string               `json:"message,omitempty"`

	OrderID   *string `gorm:"index" json:"-"`
	PaymentID *string `json:"-"`
	Signature *string `json:"-"`

	types.Timestamps
}

// DonorView is the checkout-context projection. Gateway references stay out
// of client responses.
type DonorView struct {
	ID        uuid.UUID            `json:"id"`
	DonorName string               `json:"donor_name,omitempty"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency,omitempty"`
	Type      types.DonationType   `json:"type,omitempty"`
	Status    types.DonationStatus `json:"status,omitempty"`
	Anonymous bool                 `json:"anonymous,omitempty"`
}

func (d *Donation) DonorView() *DonorView {
	name := d.DonorName
	if d.Anonymous {
		name = ""
	}
	return &DonorView{
		ID:        d.ID,
		DonorName: name,
		Amount:    d.Amount,
		Currency:  d.Currency,
		Type:      d.Type,
		Status:    d.Status,
		Anonymous: d.Anonymous,
	}
}
