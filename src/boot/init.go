package boot

import (
	"log"
	"time"

	"bucketlistt/src/db"
	"bucketlistt/src/lib"
	"bucketlistt/src/models"
	"bucketlistt/src/models/scopes"
	"bucketlistt/src/utils"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Destination{},
		&models.Experience{},
		&models.ExperienceImage{},
		&models.Activity{},
		&models.TimeSlot{},
		&models.Booking{},
		&models.BookingParticipant{},
		&models.BookingLog{},
		&models.DiscountCoupon{},
		&models.OTPVerification{},
		&models.Blog{},
		&models.JobTask{},
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
	if _, err := lib.CreateCronJob(utils.PurgeExpiredOTPs, 1*time.Hour); err != nil {
		log.Printf("Error running job: %s\n", err.Error())
		return
	}
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)
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

// RecoverQueuedJobs re-arms booking expiry timers that were pending
// when the process last stopped.
func RecoverQueuedJobs() error {
	sched, err := lib.GetScheduler()
	if err != nil {
		return err
	}
	db := db.GetDb()
	ss := db.Session(&gorm.Session{PrepareStmt: true})
	var jobTasks []models.JobTask
	today := time.Now()
	in1m := today.Add(1 * time.Minute)
	in3months := today.Add((24 * 30 * 3) * time.Hour)
	err = ss.
		Model(&models.JobTask{}).Select("id", "payload", "runs_at").
		Where(&models.JobTask{Status: "pending", JobType: "OneTimeJobStartDateTime"}).
		Where("runs_at BETWEEN ? AND ?", in1m, in3months).
		Order("runs_at asc").
		Limit(100).
		Find(&jobTasks).
		Error
	if err != nil {
		log.Printf("Error retrieving jobs: %s\n", err.Error())
		return err
	}
	log.Printf("Found %d pending jobs", len(jobTasks))
	for _, jobTask := range jobTasks {
		log.Printf("Queueing: %s\n", jobTask.ID.String())
		id := jobTask.Payload["id"].(float64)
		jobID := jobTask.ID.String()
		jobDef := gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(jobTask.RunsAt))
		jt := gocron.NewTask(func(bookingID uint, jobID string) {
			log.Println("Running scheduled task")
			utils.ExpirePendingBooking(bookingID, jobID)
		}, uint(id), jobID)
		job, err := sched.NewJob(
			jobDef,
			jt,
		)
		if err != nil {
			log.Printf("Failed to schedule job [%s]. Skipping: %s\n", jobTask.ID.String(), err.Error())
			continue
		}
		log.Printf("Added job to scheduler: name=%s id=%s job=%s\n", jobTask.Name, jobTask.ID.String(), job.ID().String())
	}

	return nil
}

// UpdateExpiredJobs marks jobs whose run time passed while the process
// was down, then releases the holds they were guarding.
func UpdateExpiredJobs() {
	db := db.GetDb()
	var stale []models.JobTask
	err := db.
		Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.JobTask{}).
				Scopes(scopes.WithPendingStatus).
				Where("runs_at < ?", time.Now()).
				Find(&stale).
				Error; err != nil {
				return err
			}
			return tx.Model(&models.JobTask{}).
				Scopes(scopes.WithPendingStatus).
				Where("runs_at < ?", time.Now()).
				Update("status", "expired").Error
		})
	if err != nil {
		log.Printf("Error while processing expired jobs: %s\n", err.Error())
		return
	}
	for _, jobTask := range stale {
		if jobTask.Source != "Booking" {
			continue
		}
		id, ok := jobTask.Payload["id"].(float64)
		if !ok {
			continue
		}
		go utils.ExpirePendingBooking(uint(id), jobTask.ID.String())
	}
}
