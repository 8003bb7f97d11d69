// Package jobs contains the background worker and its tasks.
package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSecurityScan is the periodic access-log security scan.
	TaskSecurityScan = "security:scan"
)

// SecurityScanPayload configures one scan run.
type SecurityScanPayload struct {
	// Days is the look-back window, default 7.
	Days int `json:"days"`
	// Detailed includes per-address findings in the log output.
	Detailed bool `json:"detailed"`
}

// NewSecurityScanTask constructs an Asynq task.
func NewSecurityScanTask(payload SecurityScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSecurityScan, data), nil
}

// Client enqueues tasks for the worker.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an enqueueing client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueSecurityScan enqueues a security scan run.
func (c *Client) EnqueueSecurityScan(ctx context.Context, payload SecurityScanPayload) (*asynq.TaskInfo, error) {
	task, err := NewSecurityScanTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
