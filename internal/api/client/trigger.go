package client

import (
	"context"
	"time"

	domain "github.com/donaldgifford/restock-tracker/pkg/types"
)

// TriggerResult is the response of a triggered run.
type TriggerResult[S any] struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Stats     S         `json:"stats"`
}

// Sweep triggers a restock sweep and waits for it to finish.
func (c *Client) Sweep(ctx context.Context) (*TriggerResult[domain.SweepStats], error) {
	var res TriggerResult[domain.SweepStats]
	if err := c.post(ctx, "/api/v1/sweep", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// FeedScan triggers a feed offer scan and waits for it to finish.
func (c *Client) FeedScan(ctx context.Context) (*TriggerResult[domain.FeedScanStats], error) {
	var res TriggerResult[domain.FeedScanStats]
	if err := c.post(ctx, "/api/v1/feed-scan", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
