package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type EventStatus string

const (
	EVENT_DRAFT     EventStatus = "draft"
	EVENT_PUBLISHED EventStatus = "published"
	EVENT_COMPLETED EventStatus = "completed"
	EVENT_CANCELED  EventStatus = "canceled"
)

type TicketStatus string

const (
	TICKET_PENDING    TicketStatus = "pending"
	TICKET_CHECKED_IN TicketStatus = "checked_in"
	TICKET_CANCELLED  TicketStatus = "cancelled"
)

type DonationStatus string

const (
	DONATION_PENDING   DonationStatus = "pending"
	DONATION_COMPLETED DonationStatus = "completed"
	DONATION_FAILED    DonationStatus = "failed"
	DONATION_REFUNDED  DonationStatus = "refunded"
	DONATION_CANCELLED DonationStatus = "cancelled"
)

type DonationType string

const (
	DONATION_ONE_TIME    DonationType = "one_time"
	DONATION_MONTHLY     DonationType = "monthly"
	DONATION_SPONSORSHIP DonationType = "sponsorship"
)

type SubscriberStatus string

const (
	SUBSCRIBER_ACTIVE       SubscriberStatus = "active"
	SUBSCRIBER_UNSUBSCRIBED SubscriberStatus = "unsubscribed"
)

// ContentKind is a closed set of page variants. Each kind gets its own typed
// validation instead of a string-keyed lookup into a generic model table.
type ContentKind string

const (
	CONTENT_POST         ContentKind = "post"
	CONTENT_PAGE         ContentKind = "page"
	CONTENT_ANNOUNCEMENT ContentKind = "announcement"
)

func (k ContentKind) Valid() bool {
	switch k {
	case CONTENT_POST, CONTENT_PAGE, CONTENT_ANNOUNCEMENT:
		return true
	}
	return false
}

// Role ladder: viewer < editor < admin.
type Role string

const (
	ROLE_VIEWER Role = "viewer"
	ROLE_EDITOR Role = "editor"
	ROLE_ADMIN  Role = "admin"
)

func (r Role) Level() int {
	switch r {
	case ROLE_ADMIN:
		return 3
	case ROLE_EDITOR:
		return 2
	case ROLE_VIEWER:
		return 1
	}
	return 0
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type UUIDRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

type SlugRequestParams struct {
	Slug string `uri:"slug" binding:"required"`
}

type CreateEventRequestBody struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location,omitempty"`
	StartsAt    string  `json:"starts_at" binding:"required,futuredate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt      *string `json:"ends_at,omitempty" binding:"omitempty,gtdate=StartsAt" time_format:"2006-01-02 15:04:05 -07:00"`
	Publish     bool    `json:"publish,omitempty"`
}

type UpdateEventRequestBody struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type CreateTicketTypeRequestBody struct {
	Name        string   `json:"name" binding:"required"`
	Price       float64  `json:"price"`
	MinDonation *float64 `json:"min_donation,omitempty"`
	MaxDonation *float64 `json:"max_donation,omitempty"`
	Quantity    uint     `json:"quantity,omitempty"`
	SalesStart  *string  `json:"sales_start,omitempty" binding:"omitempty" time_format:"2006-01-02 15:04:05 -07:00"`
	SalesEnd    *string  `json:"sales_end,omitempty" binding:"omitempty,gtdate=SalesStart" time_format:"2006-01-02 15:04:05 -07:00"`
	Rank        int      `json:"rank,omitempty"`
}

type IssueTicketRequestBody struct {
	EventID       uint   `json:"event_id" binding:"required"`
	TicketTypeID  uint   `json:"ticket_type_id" binding:"required"`
	AttendeeName  string `json:"attendee_name" binding:"required"`
	AttendeeEmail string `json:"attendee_email" binding:"required,email"`
	AttendeePhone string `json:"attendee_phone,omitempty"`
}

type QRCheckInRequestBody struct {
	QRData string `json:"qrData" binding:"required"`
}

type ManualCheckInRequestBody struct {
	TicketID uint `json:"ticketId" binding:"required"`
}

type CreateDonationRequestBody struct {
	DonorName  string  `json:"donor_name" binding:"required"`
	DonorEmail string  `json:"donor_email" binding:"required,email"`
	DonorPhone string  `json:"donor_phone,omitempty"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Type       string  `json:"type,omitempty"`
	Anonymous  bool    `json:"anonymous,omitempty"`
	Message    string  `json:"message,omitempty"`
}

type CreateOrderRequestBody struct {
	DonationID string         `json:"donation_id" binding:"required"`
	Currency   string         `json:"currency,omitempty"`
	Notes      map[string]any `json:"notes,omitempty"`
}

type VerifyPaymentRequestBody struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type SubscribeRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name,omitempty"`
}

type SendNewsletterRequestBody struct {
	Subject   string  `json:"subject" binding:"required"`
	Content   string  `json:"content" binding:"required"`
	TestEmail *string `json:"testEmail,omitempty" binding:"omitempty,email"`
}

type CreatePostRequestBody struct {
	Title   string      `json:"title" binding:"required"`
	Kind    ContentKind `json:"kind" binding:"required"`
	Body    string      `json:"body" binding:"required"`
	Excerpt string      `json:"excerpt,omitempty"`
	Publish bool        `json:"publish,omitempty"`
}

type VolunteerRequestBody struct {
	Name      string   `json:"name" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Phone     string   `json:"phone,omitempty"`
	Interests []string `json:"interests,omitempty"`
	Message   string   `json:"message,omitempty"`
}

type RegisterDeviceRequestBody struct {
	Token  string   `json:"token" binding:"required"`
	Topics []string `json:"topics,omitempty"`
}

type SendPushRequestBody struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	Topic string `json:"topic,omitempty"`
}

type AdminLoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CheckInStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	CheckedIn int64 `json:"checked_in"`
	Cancelled int64 `json:"cancelled"`
}

type FanoutResult struct {
	SentTo int `json:"sentTo"`
	Failed int `json:"failed"`
	Total  int `json:"total"`
}
