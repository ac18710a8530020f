package autotask

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// proxy issues one fire-once request and returns the 200 body verbatim.
// Every lookup operation outside the search lifecycle is this same
// pattern: method, path, optional query or body, a 404 message, a
// timeout class. No state machine, no retry.
func (c *Client) proxy(ctx context.Context, method, path string, query url.Values, body any, notFound string, timeout time.Duration) (json.RawMessage, error) {
	status, respBody, err := c.do(ctx, method, path, query, body, timeout)
	if err != nil {
		return nil, err
	}
	if err := c.classify(status, respBody, notFound); err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, unexpectedError(status, string(respBody))
	}
	return json.RawMessage(respBody), nil
}

// TicketDetails fetches one ticket with its full description and notes.
func (c *Client) TicketDetails(ctx context.Context, taskID int) (json.RawMessage, error) {
	c.logger.WithContext(ctx).Info("fetching ticket details", zap.Int("task_id", taskID))

	path := fmt.Sprintf("/api/ticket/%d/", taskID)
	notFound := fmt.Sprintf("Ticket with ID %d not found.", taskID)
	return c.proxy(ctx, http.MethodGet, path, nil, nil, notFound, c.config.DetailTimeout)
}

// TicketsDetails fetches full details for up to maxBatchSize tickets in
// one call. The size limit is enforced before any request is sent.
func (c *Client) TicketsDetails(ctx context.Context, taskIDs []int) (json.RawMessage, error) {
	if len(taskIDs) == 0 {
		return nil, validationError("task_ids cannot be empty.")
	}
	if len(taskIDs) > maxBatchSize {
		return nil, validationError(fmt.Sprintf("Cannot request more than %d tickets at once. You requested %d.", maxBatchSize, len(taskIDs)))
	}

	c.logger.WithContext(ctx).Info("fetching bulk ticket details", zap.Int("count", len(taskIDs)))

	body := map[string]any{"task_ids": taskIDs}
	return c.proxy(ctx, http.MethodPost, "/api/tickets/details/", nil, body, c.endpointNotFound(), c.config.SearchTimeout)
}

// TicketsNotes fetches human-created notes for multiple tickets,
// addressed by task ID, ticket number, or both. At least one identifier
// is required and the combined count may not exceed maxBatchSize.
func (c *Client) TicketsNotes(ctx context.Context, taskIDs []int, taskNumbers []string) (json.RawMessage, error) {
	total := len(taskIDs) + len(taskNumbers)
	if total == 0 {
		return nil, validationError("At least one of task_ids or task_numbers must be provided.")
	}
	if total > maxBatchSize {
		return nil, validationError(fmt.Sprintf("Cannot request more than %d tickets at once. You requested %d.", maxBatchSize, total))
	}

	c.logger.WithContext(ctx).Info("fetching bulk ticket notes",
		zap.Int("task_ids", len(taskIDs)),
		zap.Int("task_numbers", len(taskNumbers)),
	)

	body := map[string]any{}
	if len(taskIDs) > 0 {
		body["task_ids"] = taskIDs
	}
	if len(taskNumbers) > 0 {
		body["task_numbers"] = taskNumbers
	}
	return c.proxy(ctx, http.MethodPost, "/api/tickets/notes/", nil, body, c.endpointNotFound(), c.config.SearchTimeout)
}

// RelatedTickets fetches tickets similar to the given one. The page size
// maps to the backend's limit parameter, clamped to maxRelatedLimit.
func (c *Client) RelatedTickets(ctx context.Context, taskID, perPage int) (json.RawMessage, error) {
	limit := perPage
	if limit < 1 {
		limit = 10
	}
	if limit > maxRelatedLimit {
		limit = maxRelatedLimit
	}

	c.logger.WithContext(ctx).Info("fetching related tickets",
		zap.Int("task_id", taskID),
		zap.Int("limit", limit),
	)

	path := fmt.Sprintf("/api/ticket/%d/related/", taskID)
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	notFound := fmt.Sprintf("Ticket with ID %d not found.", taskID)
	return c.proxy(ctx, http.MethodGet, path, params, nil, notFound, c.config.DetailTimeout)
}
