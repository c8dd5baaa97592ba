package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeSMSBroadcast JobType = "sms_broadcast"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job persisted in the database
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type" gorm:"type:varchar(50);index"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status" gorm:"type:varchar(20);index"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	NextRetry  *time.Time      `json:"next_retry,omitempty"`
	Error      string          `json:"error,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) (interface{}, error)

// Queue is a database-backed job queue. Broadcast work runs here so an
// HTTP request is never held open while hundreds of SMS sends fan out.
type Queue struct {
	db         *gorm.DB
	handlers   map[JobType]JobHandler
	processing bool
	quit       chan struct{}
}

// NewQueue creates a new queue
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
		quit:     make(chan struct{}),
	}
}

// RegisterHandler registers a handler for a job type
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.handlers[jobType] = handler
}

// EnqueueJob adds a job to the queue
func (q *Queue) EnqueueJob(jobType JobType, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:      uuid.New(),
		Type:    jobType,
		Payload: payloadBytes,
		Status:  JobStatusPending,
	}

	if err := q.db.Create(&job).Error; err != nil {
		return "", err
	}

	return job.ID.String(), nil
}

// GetJob retrieves a job by ID
func (q *Queue) GetJob(jobID string) (*Job, error) {
	var job Job
	if err := q.db.Where("id = ?", jobID).First(&job).Error; err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// StartProcessing starts the background processing loop
func (q *Queue) StartProcessing() {
	if q.processing {
		return
	}
	q.processing = true

	go func() {
		for {
			select {
			case <-q.quit:
				return
			default:
			}

			var job Job
			err := q.db.
				Where("status = ? AND (next_retry IS NULL OR next_retry <= ?)", JobStatusPending, time.Now()).
				Order("created_at").
				First(&job).Error
			if err != nil {
				if err != gorm.ErrRecordNotFound {
					logrus.WithError(err).Error("error polling job queue")
				}
				time.Sleep(1 * time.Second)
				continue
			}

			q.processJob(job)
		}
	}()
}

func (q *Queue) processJob(job Job) {
	handler, ok := q.handlers[job.Type]
	if !ok {
		logrus.WithField("type", job.Type).Warn("no handler registered for job type")
		q.markFailed(job, fmt.Errorf("no handler for type %s", job.Type))
		return
	}

	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusProcessing,
		"updated_at": time.Now(),
	}).Error; err != nil {
		logrus.WithError(err).Error("failed to claim job")
		return
	}

	result, err := handler(context.Background(), job)
	if err != nil {
		if job.RetryCount < job.MaxRetries {
			// Exponential backoff: 1m, 2m, 4m ...
			delay := time.Duration(1<<job.RetryCount) * time.Minute
			next := time.Now().Add(delay)
			if updateErr := q.db.Model(&job).Updates(map[string]interface{}{
				"status":      JobStatusPending,
				"retry_count": job.RetryCount + 1,
				"next_retry":  next,
				"error":       err.Error(),
				"updated_at":  time.Now(),
			}).Error; updateErr != nil {
				logrus.WithError(updateErr).Error("failed to schedule job retry")
			}
			return
		}
		q.markFailed(job, err)
		return
	}

	var resultJSON []byte
	if result != nil {
		resultJSON, _ = json.Marshal(result)
	}
	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusCompleted,
		"result":     resultJSON,
		"updated_at": time.Now(),
	}).Error; err != nil {
		logrus.WithError(err).Error("failed to record job result")
	}
}

func (q *Queue) markFailed(job Job, jobErr error) {
	if err := q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusFailed,
		"error":      jobErr.Error(),
		"updated_at": time.Now(),
	}).Error; err != nil {
		logrus.WithError(err).Error("failed to mark job failed")
	}
	logrus.WithFields(logrus.Fields{"job": job.ID, "type": job.Type}).WithError(jobErr).Warn("job failed")
}

// StopProcessing stops the background processing loop
func (q *Queue) StopProcessing() {
	if !q.processing {
		return
	}
	q.processing = false
	close(q.quit)
}
