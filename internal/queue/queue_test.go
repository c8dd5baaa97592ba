package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Job{}))
	return db
}

type testPayload struct {
	Message string `json:"message"`
}

func TestEnqueueAndGetJob(t *testing.T) {
	q := NewQueue(setupTestDB(t))

	jobID, err := q.EnqueueJob(JobTypeSMSBroadcast, testPayload{Message: "hello"})
	require.NoError(t, err)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobTypeSMSBroadcast, job.Type)
	assert.Equal(t, JobStatusPending, job.Status)

	var payload testPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "hello", payload.Message)
}

func TestProcessJobSuccess(t *testing.T) {
	q := NewQueue(setupTestDB(t))

	handled := 0
	q.RegisterHandler(JobTypeSMSBroadcast, func(ctx context.Context, job Job) (interface{}, error) {
		handled++
		return map[string]int{"sent": 3}, nil
	})

	jobID, err := q.EnqueueJob(JobTypeSMSBroadcast, testPayload{Message: "hello"})
	require.NoError(t, err)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	q.processJob(*job)

	assert.Equal(t, 1, handled)

	done, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusCompleted, done.Status)
	assert.Contains(t, string(done.Result), `"sent":3`)
}

func TestProcessJobRetriesWithBackoff(t *testing.T) {
	q := NewQueue(setupTestDB(t))

	q.RegisterHandler(JobTypeSMSBroadcast, func(ctx context.Context, job Job) (interface{}, error) {
		return nil, errors.New("provider down")
	})

	jobID, err := q.EnqueueJob(JobTypeSMSBroadcast, testPayload{})
	require.NoError(t, err)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	q.processJob(*job)

	retried, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, retried.Status, "failed jobs requeue until retries are exhausted")
	assert.Equal(t, 1, retried.RetryCount)
	require.NotNil(t, retried.NextRetry)
	assert.Equal(t, "provider down", retried.Error)
}

func TestProcessJobFailsAfterMaxRetries(t *testing.T) {
	q := NewQueue(setupTestDB(t))

	q.RegisterHandler(JobTypeSMSBroadcast, func(ctx context.Context, job Job) (interface{}, error) {
		return nil, errors.New("permanent failure")
	})

	jobID, err := q.EnqueueJob(JobTypeSMSBroadcast, testPayload{})
	require.NoError(t, err)

	// Simulate a job that has already used up its retries
	require.NoError(t, q.db.Model(&Job{}).Where("id = ?", jobID).Update("retry_count", 3).Error)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	q.processJob(*job)

	failed, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, failed.Status)
	assert.Equal(t, "permanent failure", failed.Error)
}

func TestProcessJobWithoutHandler(t *testing.T) {
	q := NewQueue(setupTestDB(t))

	jobID, err := q.EnqueueJob(JobType("unknown"), testPayload{})
	require.NoError(t, err)

	job, err := q.GetJob(jobID)
	require.NoError(t, err)
	q.processJob(*job)

	failed, err := q.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, failed.Status)
}
