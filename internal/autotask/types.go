package autotask

import "encoding/json"

// SearchQuery describes one ticket search. Zero values mean "not set";
// out-of-range pagination is clamped at request-build time, never rejected.
type SearchQuery struct {
	Query string

	// Limit is the legacy single-number pagination mode. When Page is set
	// it is ignored in favor of Page/PerPage.
	Limit   int
	Page    int
	PerPage int

	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD
	Sentiment      string // negative, neutral or positive
	MinFrustration *float64
	PriorityOnly   bool
}

// Pagination is the backend's pagination block, echoed through unchanged.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// SearchResult is the uniform search outcome. Every path through the
// client (immediate 200, post-poll retry, empty result set) produces
// this shape. Result order is exactly as received from the backend.
type SearchResult struct {
	Query      string            `json:"query"`
	Count      int               `json:"count"`
	Pagination Pagination        `json:"pagination"`
	Filters    json.RawMessage   `json:"filters,omitempty"`
	CacheHit   bool              `json:"cache_hit"`
	Results    []json.RawMessage `json:"results"`

	// Processing marks the still-processing terminal outcome: the deferred
	// job exhausted its poll budget. Not an error; the caller re-invokes.
	Processing bool   `json:"-"`
	TaskID     string `json:"-"`
}

// DirectoryQuery describes a company or contact search.
type DirectoryQuery struct {
	Query      string
	Page       int
	PerPage    int
	ActiveOnly bool
	MatchType  string // fuzzy, exact or wildcard; anything else becomes fuzzy
	CompanyID  int    // contacts only; 0 means no filter
}

// searchEnvelope is the wire shape of a completed search response.
type searchEnvelope struct {
	Results    []json.RawMessage `json:"results"`
	Pagination *Pagination       `json:"pagination"`
	Filters    json.RawMessage   `json:"filters"`
	CacheHit   bool              `json:"cache_hit"`
}

// jobStatus is the wire shape of the deferred-job status endpoint.
type jobStatus struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// Terminal job states. Anything else, including an absent status, is
// treated as still pending.
const (
	jobStatusSuccess = "SUCCESS"
	jobStatusFailure = "FAILURE"
	jobStatusPending = "PENDING"
)

// maxBatchSize is the largest identifier list any batch operation accepts.
// Enforced locally before a request is sent.
const maxBatchSize = 50

// maxRelatedLimit caps the related-tickets limit parameter.
const maxRelatedLimit = 30
