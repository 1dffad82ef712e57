package common

import (
	"errors"
	"fmt"
	"ngocms/src/db"
	"ngocms/src/lib"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []string
	failOn map[string]bool
}

func (f *fakeSender) Send(input *lib.SendMailInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	to := input.To[0]
	if f.failOn[to] {
		return errors.New("mailbox unavailable")
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestSendNewsletterTestAddress(t *testing.T) {
	interBatchDelay = 0
	sender := &fakeSender{}
	NewMailSender(sender)
	defer NewMailSender(smtpSender{})

	test := "reviewer@example.com"
	result, err := SendNewsletter("Hello", "<p>Hi</p>", &test)
	assert.Nil(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.SentTo)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, []string{"reviewer@example.com"}, sender.sent)
}

func TestSendNewsletterCountsFailuresAsData(t *testing.T) {
	interBatchDelay = 0
	d, mock := db.NewMockDB()
	db.NewDB(d)

	rows := sqlmock.NewRows([]string{"email"})
	failOn := map[string]bool{}
	for i := 0; i < 120; i++ {
		email := fmt.Sprintf("subscriber%d@example.com", i)
		rows.AddRow(email)
		if i%3 == 0 {
			failOn[email] = true
		}
	}
	mock.ExpectQuery(`SELECT "email" FROM "subscribers"`).
		WithArgs("active").
		WillReturnRows(rows)

	sender := &fakeSender{failOn: failOn}
	NewMailSender(sender)
	defer NewMailSender(smtpSender{})

	result, err := SendNewsletter("Hello", "<p>Hi</p>", nil)
	assert.Nil(t, err)
	assert.Equal(t, 120, result.Total)
	assert.Equal(t, 40, result.Failed)
	assert.Equal(t, 80, result.SentTo)
	assert.Len(t, sender.sent, 80)
	assert.Nil(t, mock.ExpectationsWereMet())
}

func TestSendNewsletterNoRecipients(t *testing.T) {
	interBatchDelay = 0
	_, mock := db.GetMockDB()
	mock.ExpectQuery(`SELECT "email" FROM "subscribers"`).
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	sender := &fakeSender{}
	NewMailSender(sender)
	defer NewMailSender(smtpSender{})

	result, err := SendNewsletter("Hello", "<p>Hi</p>", nil)
	assert.Nil(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 0, result.SentTo)
	assert.Equal(t, 0, result.Failed)
}
