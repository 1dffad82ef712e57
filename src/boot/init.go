package boot

import (
	"log"
	"ngocms/src/common"
	"ngocms/src/db"
	"ngocms/src/lib"
	"ngocms/src/models"
	"os"
	"time"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.Ticket{},
		&models.Donation{},
		&models.Subscriber{},
		&models.Volunteer{},
		&models.Post{},
		&models.PushDevice{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// pendingDonationTTL is how long an unpaid donation may sit before the
// sweeper cancels it. Defaults to 24 hours.
func pendingDonationTTL() time.Duration {
	if raw := os.Getenv("DONATION_PENDING_TTL"); raw != "" {
		if ttl, err := time.ParseDuration(raw); err == nil && ttl > 0 {
			return ttl
		}
		log.Printf("Invalid DONATION_PENDING_TTL %q, using default\n", os.Getenv("DONATION_PENDING_TTL"))
	}
	return 24 * time.Hour
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	ttl := pendingDonationTTL()
	jobId, err := lib.CreateCronJob(common.SweepStalePendingDonations, time.Hour, ttl)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *jobId)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
