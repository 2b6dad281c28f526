package boot

import (
	"log"
	"time"

	"wayfinder/src/db"
	"wayfinder/src/lib"
	"wayfinder/src/lib/mailer"
	"wayfinder/src/models"
	"wayfinder/src/types"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Trip{},
		&models.Ticket{},
		&models.Transaction{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	id, err := lib.CreateCronJob(RemindPendingTrips, 6*time.Hour)
	if err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)
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
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

// RemindPendingTrips emails travelers whose reservations have sat in pending
// for more than a day. Read-only over trips, so the transition rules are
// untouched.
func RemindPendingTrips() {
	db := db.GetDb()
	cutoff := time.Now().Add(-24 * time.Hour)
	var trips []models.Trip
	if err := db.
		Model(&models.Trip{}).
		Where("status = ? AND created_at < ?", types.TRIP_PENDING, cutoff).
		Find(&trips).
		Error; err != nil {
		log.Printf("Error listing pending trips: %s\n", err.Error())
		return
	}
	for _, trip := range trips {
		if err := mailer.SendPendingReminderEmail(&trip); err != nil {
			log.Printf("Error sending reminder for trip %s: %s\n", trip.ID, err.Error())
		}
	}
	log.Printf("Pending trip reminders sent: %d\n", len(trips))
}
