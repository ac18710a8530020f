package autotask

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const searchPath = "/api/search/double-reranked/"

// SearchTickets runs one ticket search. The backend may answer
// synchronously (200) or defer the work to a background job (202); in
// the deferred case the job is polled to completion and the original
// request is re-issued against the then-warm cache. All successful paths
// produce the same normalized SearchResult, including the empty set and
// the still-processing outcome.
func (c *Client) SearchTickets(ctx context.Context, q *SearchQuery) (*SearchResult, error) {
	params := buildSearchParams(q)

	c.logger.WithContext(ctx).Info("searching tickets",
		zap.String("query", q.Query),
		zap.String("params", params.Encode()),
	)

	status, body, err := c.do(ctx, http.MethodGet, searchPath, params, nil, c.config.SearchTimeout)
	if err != nil {
		return nil, err
	}
	if err := c.classify(status, body, c.endpointNotFound()); err != nil {
		return nil, err
	}

	if status == http.StatusAccepted {
		return c.searchDeferred(ctx, q, params, body)
	}

	return normalizeSearch(q, body)
}

// searchDeferred handles the 202 path: extract the job handle, poll it,
// and on success re-issue the original search exactly once.
func (c *Client) searchDeferred(ctx context.Context, q *SearchQuery, params url.Values, body []byte) (*SearchResult, error) {
	taskID := gjson.GetBytes(body, "task_id").String()
	if taskID == "" {
		return nil, unexpectedError(http.StatusAccepted, "deferred response carried no task_id")
	}

	outcome, err := c.pollJob(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if outcome == pollExhausted {
		c.logger.WithContext(ctx).Warn("search still processing after poll budget",
			zap.String("task_id", taskID),
			zap.Int("attempts", c.config.PollMaxAttempts),
		)
		return &SearchResult{
			Query:      q.Query,
			Results:    []json.RawMessage{},
			Processing: true,
			TaskID:     taskID,
		}, nil
	}

	// Warm-cache retry. This response feeds the standard normalizer; a
	// second deferral means the cache entry already expired, which is
	// indistinguishable from still-processing for the caller.
	status, retryBody, err := c.do(ctx, http.MethodGet, searchPath, params, nil, c.config.SearchTimeout)
	if err != nil {
		return nil, err
	}
	if err := c.classify(status, retryBody, c.endpointNotFound()); err != nil {
		return nil, err
	}
	if status == http.StatusAccepted {
		newTask := gjson.GetBytes(retryBody, "task_id").String()
		return &SearchResult{
			Query:      q.Query,
			Results:    []json.RawMessage{},
			Processing: true,
			TaskID:     newTask,
		}, nil
	}

	return normalizeSearch(q, retryBody)
}

// buildSearchParams turns a SearchQuery into backend query parameters.
// Pure transformation: numeric bounds are clamped into range, optional
// filters are included only when set, and the query text is passed
// through untouched (empty is valid).
func buildSearchParams(q *SearchQuery) url.Values {
	params := url.Values{}
	params.Set("q", q.Query)

	if q.Page > 0 || q.PerPage > 0 {
		params.Set("page", strconv.Itoa(clampPage(q.Page)))
		params.Set("per_page", strconv.Itoa(clampPerPage(q.PerPage, 10)))
	} else {
		params.Set("limit", strconv.Itoa(clampLimit(q.Limit)))
	}

	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.Sentiment != "" {
		params.Set("sentiment", q.Sentiment)
	}
	if q.MinFrustration != nil {
		params.Set("min_frustration", strconv.FormatFloat(clampFrustration(*q.MinFrustration), 'f', -1, 64))
	}
	if q.PriorityOnly {
		params.Set("priority_only", "true")
	}

	return params
}

// clampLimit clamps the legacy limit into [1,100], defaulting to 10.
func clampLimit(n int) int {
	if n < 1 {
		return 10
	}
	if n > 100 {
		return 100
	}
	return n
}

// clampPage clamps a page number to >=1.
func clampPage(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// clampPerPage clamps a page size into [1,100], using def when unset.
func clampPerPage(n, def int) int {
	if n < 1 {
		return def
	}
	if n > 100 {
		return 100
	}
	return n
}

func clampFrustration(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// normalizeSearch shapes a completed 200 body into the uniform result:
// query echo, count, pagination (zero struct when absent), filter echo,
// cache-hit flag, and the result sequence in received order. An empty
// result set is a success with count zero, never a not-found.
func normalizeSearch(q *SearchQuery, body []byte) (*SearchResult, error) {
	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &Error{
			Kind:    KindUnexpected,
			Message: fmt.Sprintf("Invalid response from the Autotask API: %v", err),
			Err:     err,
		}
	}

	result := &SearchResult{
		Query:    q.Query,
		Count:    len(env.Results),
		Filters:  env.Filters,
		CacheHit: env.CacheHit,
		Results:  env.Results,
	}
	if result.Results == nil {
		result.Results = []json.RawMessage{}
	}
	if env.Pagination != nil {
		result.Pagination = *env.Pagination
	}

	return result, nil
}
