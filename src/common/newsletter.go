package common

import (
	"errors"
	"log"
	"ngocms/src/config"
	"ngocms/src/db"
	"ngocms/src/lib"
	"ngocms/src/models"
	"ngocms/src/models/scopes"
	"ngocms/src/types"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
)

var ErrSubscriberNotFound = errors.New("Subscriber not found")

// MailSender is the outbound transport seam. Production sends over SMTP;
// tests swap in a fake.
type MailSender interface {
	Send(input *lib.SendMailInput) error
}

type smtpSender struct{}

func (smtpSender) Send(input *lib.SendMailInput) error {
	return lib.SendMail(input)
}

var mailSender MailSender = smtpSender{}

// NewMailSender Replace mail transport with custom implementation
func NewMailSender(s MailSender) {
	mailSender = s
}

// interBatchDelay keeps the upstream relay from rate-limiting the job.
var interBatchDelay = time.Second

// SendNewsletter fans a message out to the active subscriber base, or to a
// single test address when one is given. Recipients are processed in capped
// batches, concurrently within a batch, sequentially across batches. A
// failing recipient is counted and skipped; it never aborts the batch or the
// job, so the job reports success with failure counts as data.
func SendNewsletter(subject, content string, testEmail *string) (*types.FanoutResult, error) {
	var recipients []string
	if testEmail != nil && *testEmail != "" {
		recipients = []string{*testEmail}
	} else {
		var subscribers []models.Subscriber
		db := db.GetDb()
		if err := db.
			Model(&models.Subscriber{}).
			Select("email").
			Scopes(scopes.ActiveSubscribers).
			Find(&subscribers).
			Error; err != nil {
			log.Printf("Error retrieving Subscribers: %s\n", err.Error())
			return nil, err
		}
		for _, s := range subscribers {
			recipients = append(recipients, s.Email)
		}
	}

	from := os.Getenv("SMTP_FROM")
	var sent, failed atomic.Int64
	for start := 0; start < len(recipients); start += config.NEWSLETTER_BATCH_SIZE {
		end := min(start+config.NEWSLETTER_BATCH_SIZE, len(recipients))
		batch := recipients[start:end]

		var wg sync.WaitGroup
		for _, to := range batch {
			wg.Add(1)
			go func(to string) {
				defer wg.Done()
				if err := mailSender.Send(&lib.SendMailInput{
					From:     from,
					FromName: "Newsletter",
					To:       []string{to},
					Subject:  subject,
					Body:     content,
					Html:     true,
				}); err != nil {
					log.Printf("Could not send newsletter to [%s]: %s\n", to, err.Error())
					failed.Add(1)
					return
				}
				sent.Add(1)
			}(to)
		}
		wg.Wait()

		if end < len(recipients) {
			time.Sleep(interBatchDelay)
		}
	}

	return &types.FanoutResult{
		SentTo: int(sent.Load()),
		Failed: int(failed.Load()),
		Total:  len(recipients),
	}, nil
}

// Subscribe upserts on email: a new address gets an active row, a previously
// unsubscribed one is reactivated.
func Subscribe(email, name string) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		var sub models.Subscriber
		if err := tx.
			Where(&models.Subscriber{Email: email}).
			FirstOrInit(&sub).
			Error; err != nil {
			return err
		}
		sub.Status = types.SUBSCRIBER_ACTIVE
		sub.SubscribedAt = &now
		sub.UnsubscribedAt = nil
		if name != "" {
			sub.Name = name
		}
		if err := tx.Save(&sub).Error; err != nil {
			return err
		}
		return nil
	})
}

// Unsubscribe soft-deletes via the status flip.
func Unsubscribe(email string) error {
	now := time.Now()
	db := db.GetDb()
	res := db.
		Model(&models.Subscriber{}).
		Where(&models.Subscriber{Email: email}).
		Updates(map[string]any{
			"status":          types.SUBSCRIBER_UNSUBSCRIBED,
			"unsubscribed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}
	return nil
}
