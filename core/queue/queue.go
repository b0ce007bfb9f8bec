package queue

import (
	"context"
	"encoding/json"

	"meetquorum/core/config"
	"meetquorum/core/logger"

	"github.com/hibiken/asynq"
)

// Task types handled by the background worker.
const (
	TypeDecisionFinalized = "decision:finalized"
)

// DecisionFinalizedPayload is enqueued after the first successful finalize
// commit for a thread. Consumers must tolerate replays: delivery is
// at-least-once while the finalize commit itself is exactly-once.
type DecisionFinalizedPayload struct {
	ThreadID     string   `json:"thread_id"`
	SlotID       string   `json:"slot_id"`
	Participants []string `json:"participants"`
	DecidedBy    string   `json:"decided_by"`
	Reason       string   `json:"reason"`
}

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

func (c *Client) EnqueueDecisionFinalized(ctx context.Context, payload DecisionFinalizedPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeDecisionFinalized, raw, asynq.MaxRetry(5))
	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return err
	}
	logger.Info("queue: task enqueued", "type", TypeDecisionFinalized, "task_id", info.ID, "thread_id", payload.ThreadID)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// NewServer builds the asynq worker server; handlers are registered by the
// modules that own them.
func NewServer(cfg config.RedisConfig) *asynq.Server {
	return asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
		asynq.Config{
			Concurrency: 5,
		},
	)
}
