package models

import (
	"log"
	"time"

	"bucketlistt/src/db"
	"bucketlistt/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobTask struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name       string      `json:"-"`
	JobType    string      `json:"-"`
	RunsAt     time.Time   `json:"-"`
	PayloadID  string      `json:"-"`
	Payload    types.JSONB `gorm:"type:jsonb" json:"-"`
	Source     string      `json:"-"`
	SourceType string      `json:"-"`
	Status     string      `gorm:"default:'pending'" json:"-"`
}

// CreateJobTask persists the task so a restart can re-arm pending
// timers. schedule is called inside the same transaction and should
// register the cron job; the task row is rolled back if it fails.
func (self *JobTask) CreateJobTask(jobTask JobTask, schedule func(id uuid.UUID) error) (string, error) {
	var jobID string
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		id := uuid.New()
		jobTask.ID = id
		jobTask.Payload["JobID"] = id.String()
		if err := tx.Create(&jobTask).Error; err != nil {
			return err
		}
		if err := schedule(id); err != nil {
			log.Printf("Error scheduling job %s: %s\n", jobTask.Name, err.Error())
			return err
		}
		jobID = id.String()
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Printf("Created job %s with name %s to run at %s\n", jobID, jobTask.Name, jobTask.RunsAt.Format(time.RFC3339))
	return jobID, nil
}
