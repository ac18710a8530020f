package autotask

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// pollOutcome is the terminal state of one poll loop.
type pollOutcome int

const (
	// pollCompleted: the job reported SUCCESS; the caller re-issues the
	// original search.
	pollCompleted pollOutcome = iota
	// pollFailed: the job reported FAILURE; the accompanying error embeds
	// the backend's detail.
	pollFailed
	// pollExhausted: the attempt budget ran out while the job was still
	// pending. A terminal outcome for this invocation, not an error.
	pollExhausted
)

// pollJob drives the deferred-job state machine for one task handle:
// sleep an interval, check status, repeat up to the attempt budget.
// The handle does not outlive this loop. There is no cancellation
// primitive beyond ctx; an unrecognized or missing status counts as
// pending.
func (c *Client) pollJob(ctx context.Context, taskID string) (pollOutcome, error) {
	statusPath := fmt.Sprintf("/api/search/status/%s/", taskID)

	log := c.logger.WithContext(ctx)
	log.Info("search deferred, polling job",
		zap.String("task_id", taskID),
		zap.Duration("interval", c.config.PollInterval),
		zap.Int("max_attempts", c.config.PollMaxAttempts),
	)

	for attempt := 1; attempt <= c.config.PollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return pollFailed, timeoutError(ctx.Err())
			}
			return pollFailed, canceledError(ctx.Err())
		case <-time.After(c.config.PollInterval):
		}

		status, body, err := c.do(ctx, http.MethodGet, statusPath, nil, nil, c.config.SearchTimeout)
		if err != nil {
			return pollFailed, err
		}
		if err := c.classify(status, body, c.endpointNotFound()); err != nil {
			return pollFailed, err
		}

		var js jobStatus
		// A malformed status body is treated like an unrecognized status:
		// keep polling until the budget runs out.
		_ = json.Unmarshal(body, &js)

		log.Debug("job status",
			zap.String("task_id", taskID),
			zap.Int("attempt", attempt),
			zap.String("status", js.Status),
		)

		switch js.Status {
		case jobStatusSuccess:
			log.Info("job completed",
				zap.String("task_id", taskID),
				zap.Int("attempts", attempt),
			)
			return pollCompleted, nil
		case jobStatusFailure:
			log.Error("job failed",
				zap.String("task_id", taskID),
				zap.String("error", js.Error),
			)
			return pollFailed, jobError(js.Error)
		default:
			// PENDING or anything unrecognized: stay in the loop.
		}
	}

	return pollExhausted, nil
}
