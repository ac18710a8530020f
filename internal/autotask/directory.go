package autotask

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// directoryPerPageDefault is the page size used by company and contact
// search when none is given. Directory listings default larger than
// ticket search because the records are small.
const directoryPerPageDefault = 25

// buildDirectoryParams turns a DirectoryQuery into backend query
// parameters with the same clamp-never-reject rules as ticket search.
// An unrecognized match type falls back to fuzzy.
func buildDirectoryParams(q *DirectoryQuery) url.Values {
	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	params.Set("page", strconv.Itoa(clampPage(q.Page)))
	params.Set("per_page", strconv.Itoa(clampPerPage(q.PerPage, directoryPerPageDefault)))
	params.Set("active_only", strconv.FormatBool(q.ActiveOnly))

	switch q.MatchType {
	case "exact", "wildcard":
		params.Set("match_type", q.MatchType)
	default:
		params.Set("match_type", "fuzzy")
	}

	if q.CompanyID > 0 {
		params.Set("company_id", strconv.Itoa(q.CompanyID))
	}

	return params
}

// SearchCompanies searches the company directory.
func (c *Client) SearchCompanies(ctx context.Context, q *DirectoryQuery) (json.RawMessage, error) {
	c.logger.WithContext(ctx).Info("searching companies", zap.String("query", q.Query))

	params := buildDirectoryParams(q)
	return c.proxy(ctx, http.MethodGet, "/api/companies/search/", params, nil, c.endpointNotFound(), c.config.SearchTimeout)
}

// SearchContacts searches the contact directory, optionally scoped to
// one company.
func (c *Client) SearchContacts(ctx context.Context, q *DirectoryQuery) (json.RawMessage, error) {
	c.logger.WithContext(ctx).Info("searching contacts",
		zap.String("query", q.Query),
		zap.Int("company_id", q.CompanyID),
	)

	params := buildDirectoryParams(q)
	return c.proxy(ctx, http.MethodGet, "/api/contacts/search/", params, nil, c.endpointNotFound(), c.config.SearchTimeout)
}

// TicketsByCompany fetches tickets owned by up to maxBatchSize companies.
func (c *Client) TicketsByCompany(ctx context.Context, companyIDs []int) (json.RawMessage, error) {
	if err := validateOwnerIDs("company_ids", companyIDs); err != nil {
		return nil, err
	}

	c.logger.WithContext(ctx).Info("fetching tickets by company", zap.Int("count", len(companyIDs)))

	body := map[string]any{"company_ids": companyIDs}
	return c.proxy(ctx, http.MethodPost, "/api/tickets/by-company/", nil, body, c.endpointNotFound(), c.config.SearchTimeout)
}

// TicketsByContact fetches tickets owned by up to maxBatchSize contacts.
func (c *Client) TicketsByContact(ctx context.Context, contactIDs []int) (json.RawMessage, error) {
	if err := validateOwnerIDs("contact_ids", contactIDs); err != nil {
		return nil, err
	}

	c.logger.WithContext(ctx).Info("fetching tickets by contact", zap.Int("count", len(contactIDs)))

	body := map[string]any{"contact_ids": contactIDs}
	return c.proxy(ctx, http.MethodPost, "/api/tickets/by-contact/", nil, body, c.endpointNotFound(), c.config.SearchTimeout)
}

func validateOwnerIDs(field string, ids []int) error {
	if len(ids) == 0 {
		return validationError(fmt.Sprintf("%s cannot be empty.", field))
	}
	if len(ids) > maxBatchSize {
		return validationError(fmt.Sprintf("Cannot request more than %d %s at once. You requested %d.", maxBatchSize, field, len(ids)))
	}
	return nil
}
