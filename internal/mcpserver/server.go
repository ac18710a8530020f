package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/msp-tools/autotask-search-mcp/internal/autotask"
	"github.com/msp-tools/autotask-search-mcp/internal/pkg/logger"
)

// Server wraps the MCP server with the Autotask search client.
type Server struct {
	client *autotask.Client
	logger *logger.Logger
	server *mcp.Server
}

// New creates the MCP server and registers all Autotask tools.
func New(client *autotask.Client, log *logger.Logger, version string) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{
		client: client,
		logger: log.Named("mcpserver"),
	}

	impl := &mcp.Implementation{
		Name:    "autotask-search",
		Version: version,
	}

	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all Autotask search tools to the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search_tickets",
		Description: "Search Autotask tickets using advanced semantic and keyword search with sentiment filtering. " +
			"Combines BM25 full-text search, semantic vector search, fuzzy matching and AI-powered reranking. " +
			"Works well with imperfect queries including typos and vague descriptions. " +
			"Supports date range, sentiment, frustration score and priority filters, plus page/per_page pagination. " +
			"Results are ranked by relevance with the most relevant tickets first. " +
			"If the search is queued for background processing the response carries status \"processing\" and a task_id; retry the same call shortly.",
	}, s.handleSearchTickets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_ticket_details",
		Description: "Get complete details for a specific ticket including all notes. " +
			"Use the numeric task ID from search results.",
	}, s.handleTicketDetails)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_tickets_details",
		Description: "Get complete details for multiple tickets in one call (maximum 50 task IDs). " +
			"More efficient than calling get_ticket_details repeatedly.",
	}, s.handleTicketsDetails)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_tickets_notes",
		Description: "Get all notes for multiple tickets. Accepts task IDs and/or task numbers " +
			"(e.g. \"T20240101.0001\"); at least one list is required and the combined total may not exceed 50.",
	}, s.handleTicketsNotes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_related_tickets",
		Description: "Find tickets similar to a given ticket using semantic similarity. " +
			"Useful for finding prior occurrences of the same problem.",
	}, s.handleRelatedTickets)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search_companies",
		Description: "Search Autotask companies by name. Supports fuzzy (default), exact and wildcard matching, " +
			"an active_only filter and page/per_page pagination (default 25 per page). " +
			"Call without a query to list companies.",
	}, s.handleSearchCompanies)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "search_contacts",
		Description: "Search Autotask contacts by name or email. Supports fuzzy (default), exact and wildcard matching, " +
			"an optional company_id filter, an active_only filter and page/per_page pagination (default 25 per page).",
	}, s.handleSearchContacts)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_tickets_by_company",
		Description: "Get tickets belonging to one or more companies (maximum 50 company IDs). " +
			"Use search_companies first to find company IDs.",
	}, s.handleTicketsByCompany)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "get_tickets_by_contact",
		Description: "Get tickets belonging to one or more contacts (maximum 50 contact IDs). " +
			"Use search_contacts first to find contact IDs.",
	}, s.handleTicketsByContact)
}
