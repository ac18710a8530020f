package mcpserver

import (
	"context"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/msp-tools/autotask-search-mcp/internal/autotask"
	"github.com/msp-tools/autotask-search-mcp/internal/pkg/logger"
)

// toolContext stamps one invocation with the tool name and a fresh
// request id. The ids travel on the returned ctx so the client's
// request/response lines correlate with the handler's.
func (s *Server) toolContext(ctx context.Context, name string) (context.Context, *logger.Logger) {
	ctx = logger.WithRequestID(ctx, uuid.NewString())
	ctx = logger.WithTool(ctx, name)
	return ctx, s.logger.WithContext(ctx)
}

// SearchTicketsArgs defines input for search_tickets.
type SearchTicketsArgs struct {
	Query          string   `json:"query" jsonschema:"Search query; supports partial company names, keywords and descriptions, including typos"`
	Limit          int      `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10, max 100); ignored when page is set"`
	Page           int      `json:"page,omitempty" jsonschema:"Page number (1-based); enables page/per_page pagination"`
	PerPage        int      `json:"per_page,omitempty" jsonschema:"Results per page (default 10, max 100)"`
	StartDate      string   `json:"start_date,omitempty" jsonschema:"Only tickets created on or after this date, YYYY-MM-DD"`
	EndDate        string   `json:"end_date,omitempty" jsonschema:"Only tickets created on or before this date, YYYY-MM-DD"`
	Sentiment      string   `json:"sentiment,omitempty" jsonschema:"Sentiment filter: negative, neutral or positive"`
	MinFrustration *float64 `json:"min_frustration,omitempty" jsonschema:"Minimum frustration score, 0.0 to 1.0"`
	PriorityOnly   bool     `json:"priority_only,omitempty" jsonschema:"Only return tickets flagged as priority"`
}

func (s *Server) handleSearchTickets(ctx context.Context, req *mcp.CallToolRequest, args SearchTicketsArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "search_tickets")
	log.Info("searching tickets",
		zap.String("query", args.Query),
		zap.Int("limit", args.Limit),
		zap.Int("page", args.Page),
	)

	result, err := s.client.SearchTickets(ctx, &autotask.SearchQuery{
		Query:          args.Query,
		Limit:          args.Limit,
		Page:           args.Page,
		PerPage:        args.PerPage,
		StartDate:      args.StartDate,
		EndDate:        args.EndDate,
		Sentiment:      args.Sentiment,
		MinFrustration: args.MinFrustration,
		PriorityOnly:   args.PriorityOnly,
	})
	if err != nil {
		log.Error("search failed", zap.Error(err))
		return errorResult(err), nil, nil
	}

	if result.Processing {
		log.Info("search still processing", zap.String("task_id", result.TaskID))
		text, err := renderProcessing(result.TaskID)
		if err != nil {
			return errorResult(err), nil, nil
		}
		return textResult(text), nil, nil
	}

	log.Info("search completed", zap.Int("count", result.Count), zap.Bool("cache_hit", result.CacheHit))
	text, err := renderJSON(result)
	if err != nil {
		return errorResult(err), nil, nil
	}
	return textResult(text), nil, nil
}

// TicketDetailsArgs defines input for get_ticket_details.
type TicketDetailsArgs struct {
	TaskID int `json:"task_id" jsonschema:"The numeric task ID from search results"`
}

func (s *Server) handleTicketDetails(ctx context.Context, req *mcp.CallToolRequest, args TicketDetailsArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "get_ticket_details")
	log.Info("fetching ticket details", zap.Int("task_id", args.TaskID))

	raw, err := s.client.TicketDetails(ctx, args.TaskID)
	if err != nil {
		log.Error("ticket details failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}

// TicketsDetailsArgs defines input for get_tickets_details.
type TicketsDetailsArgs struct {
	TaskIDs []int `json:"task_ids" jsonschema:"Task IDs to fetch, maximum 50"`
}

func (s *Server) handleTicketsDetails(ctx context.Context, req *mcp.CallToolRequest, args TicketsDetailsArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "get_tickets_details")
	log.Info("fetching batch ticket details", zap.Int("ids", len(args.TaskIDs)))

	raw, err := s.client.TicketsDetails(ctx, args.TaskIDs)
	if err != nil {
		log.Error("batch ticket details failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}

// TicketsNotesArgs defines input for get_tickets_notes.
type TicketsNotesArgs struct {
	TaskIDs     []int    `json:"task_ids,omitempty" jsonschema:"Task IDs to fetch notes for"`
	TaskNumbers []string `json:"task_numbers,omitempty" jsonschema:"Task numbers to fetch notes for, e.g. T20240101.0001"`
}

func (s *Server) handleTicketsNotes(ctx context.Context, req *mcp.CallToolRequest, args TicketsNotesArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "get_tickets_notes")
	log.Info("fetching ticket notes",
		zap.Int("ids", len(args.TaskIDs)),
		zap.Int("numbers", len(args.TaskNumbers)),
	)

	raw, err := s.client.TicketsNotes(ctx, args.TaskIDs, args.TaskNumbers)
	if err != nil {
		log.Error("ticket notes failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}

// RelatedTicketsArgs defines input for get_related_tickets.
type RelatedTicketsArgs struct {
	TaskID int `json:"task_id" jsonschema:"The numeric task ID to find similar tickets for"`
	Limit  int `json:"limit,omitempty" jsonschema:"Maximum number of related tickets (default 10, max 30)"`
}

func (s *Server) handleRelatedTickets(ctx context.Context, req *mcp.CallToolRequest, args RelatedTicketsArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "get_related_tickets")
	log.Info("fetching related tickets", zap.Int("task_id", args.TaskID), zap.Int("limit", args.Limit))

	raw, err := s.client.RelatedTickets(ctx, args.TaskID, args.Limit)
	if err != nil {
		log.Error("related tickets failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}

// DirectorySearchArgs defines input for search_companies and search_contacts.
type DirectorySearchArgs struct {
	Query      string `json:"query,omitempty" jsonschema:"Name (or email, for contacts) to search for; omit to list all"`
	Page       int    `json:"page,omitempty" jsonschema:"Page number (1-based)"`
	PerPage    int    `json:"per_page,omitempty" jsonschema:"Results per page (default 25, max 100)"`
	ActiveOnly bool   `json:"active_only,omitempty" jsonschema:"Only return active records"`
	MatchType  string `json:"match_type,omitempty" jsonschema:"Match mode: fuzzy (default), exact or wildcard"`
	CompanyID  int    `json:"company_id,omitempty" jsonschema:"Contacts only: restrict to this company"`
}

func (a *DirectorySearchArgs) directoryQuery() *autotask.DirectoryQuery {
	return &autotask.DirectoryQuery{
		Query:      a.Query,
		Page:       a.Page,
		PerPage:    a.PerPage,
		ActiveOnly: a.ActiveOnly,
		MatchType:  a.MatchType,
		CompanyID:  a.CompanyID,
	}
}

func (s *Server) handleSearchCompanies(ctx context.Context, req *mcp.CallToolRequest, args DirectorySearchArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "search_companies")
	log.Info("searching companies", zap.String("query", args.Query), zap.String("match_type", args.MatchType))

	raw, err := s.client.SearchCompanies(ctx, args.directoryQuery())
	if err != nil {
		log.Error("company search failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}

func (s *Server) handleSearchContacts(ctx context.Context, req *mcp.CallToolRequest, args DirectorySearchArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "search_contacts")
	log.Info("searching contacts",
		zap.String("query", args.Query),
		zap.Int("company_id", args.CompanyID),
	)

	raw, err := s.client.SearchContacts(ctx, args.directoryQuery())
	if err != nil {
		log.Error("contact search failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}

// TicketsByCompanyArgs defines input for get_tickets_by_company.
type TicketsByCompanyArgs struct {
	CompanyIDs []int `json:"company_ids" jsonschema:"Company IDs to fetch tickets for, maximum 50"`
}

func (s *Server) handleTicketsByCompany(ctx context.Context, req *mcp.CallToolRequest, args TicketsByCompanyArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "get_tickets_by_company")
	log.Info("fetching tickets by company", zap.Int("ids", len(args.CompanyIDs)))

	raw, err := s.client.TicketsByCompany(ctx, args.CompanyIDs)
	if err != nil {
		log.Error("tickets by company failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}

// TicketsByContactArgs defines input for get_tickets_by_contact.
type TicketsByContactArgs struct {
	ContactIDs []int `json:"contact_ids" jsonschema:"Contact IDs to fetch tickets for, maximum 50"`
}

func (s *Server) handleTicketsByContact(ctx context.Context, req *mcp.CallToolRequest, args TicketsByContactArgs) (*mcp.CallToolResult, any, error) {
	ctx, log := s.toolContext(ctx, "get_tickets_by_contact")
	log.Info("fetching tickets by contact", zap.Int("ids", len(args.ContactIDs)))

	raw, err := s.client.TicketsByContact(ctx, args.ContactIDs)
	if err != nil {
		log.Error("tickets by contact failed", zap.Error(err))
		return errorResult(err), nil, nil
	}
	return textResult(renderRaw(raw)), nil, nil
}
