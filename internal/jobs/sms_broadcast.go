package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/datamartgh/backend/internal/queue"
	"github.com/datamartgh/backend/internal/services/sms"
	"github.com/datamartgh/backend/internal/utils"
)

// SMSBroadcastPayload is the queue payload for a bulk SMS send
type SMSBroadcastPayload struct {
	Message    string   `json:"message"`
	SenderID   string   `json:"sender_id"`
	Recipients []string `json:"recipients"`
}

// SMSBroadcastResult summarizes a processed broadcast
type SMSBroadcastResult struct {
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Skipped []string `json:"skipped,omitempty"`
}

// RegisterSMSBroadcastHandler wires the broadcast handler into the queue.
// Each recipient is attempted independently so one provider rejection does
// not abort the rest of the batch.
func RegisterSMSBroadcastHandler(q *queue.Queue, client *sms.Client) {
	q.RegisterHandler(queue.JobTypeSMSBroadcast, func(ctx context.Context, job queue.Job) (interface{}, error) {
		var payload SMSBroadcastPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return nil, fmt.Errorf("error parsing broadcast payload: %w", err)
		}
		if payload.Message == "" {
			return nil, fmt.Errorf("broadcast message is empty")
		}

		result := SMSBroadcastResult{}
		for _, recipient := range payload.Recipients {
			if !utils.ValidPhoneNumber(recipient) {
				result.Skipped = append(result.Skipped, recipient)
				continue
			}

			send := client.Send(utils.NormalizePhoneNumber(recipient), payload.Message, payload.SenderID)
			if send.Success {
				result.Sent++
			} else {
				result.Failed++
				logrus.WithFields(logrus.Fields{
					"job_id":    job.ID,
					"recipient": recipient,
					"error":     send.Error,
				}).Warn("broadcast SMS failed")
			}
		}

		logrus.WithFields(logrus.Fields{
			"job_id":  job.ID,
			"sent":    result.Sent,
			"failed":  result.Failed,
			"skipped": len(result.Skipped),
		}).Info("SMS broadcast processed")

		return result, nil
	})
}
