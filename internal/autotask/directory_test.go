package autotask

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDirectoryParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		params := buildDirectoryParams(&DirectoryQuery{})
		assert.False(t, params.Has("q"))
		assert.Equal(t, "1", params.Get("page"))
		assert.Equal(t, "25", params.Get("per_page"))
		assert.Equal(t, "false", params.Get("active_only"))
		assert.Equal(t, "fuzzy", params.Get("match_type"))
		assert.False(t, params.Has("company_id"))
	})

	t.Run("explicit values", func(t *testing.T) {
		params := buildDirectoryParams(&DirectoryQuery{
			Query:      "acme",
			Page:       3,
			PerPage:    50,
			ActiveOnly: true,
			MatchType:  "exact",
			CompanyID:  12,
		})
		assert.Equal(t, "acme", params.Get("q"))
		assert.Equal(t, "3", params.Get("page"))
		assert.Equal(t, "50", params.Get("per_page"))
		assert.Equal(t, "true", params.Get("active_only"))
		assert.Equal(t, "exact", params.Get("match_type"))
		assert.Equal(t, "12", params.Get("company_id"))
	})

	t.Run("unknown match type falls back to fuzzy", func(t *testing.T) {
		params := buildDirectoryParams(&DirectoryQuery{MatchType: "regex"})
		assert.Equal(t, "fuzzy", params.Get("match_type"))
	})

	t.Run("per page clamped to 100", func(t *testing.T) {
		params := buildDirectoryParams(&DirectoryQuery{PerPage: 500})
		assert.Equal(t, "100", params.Get("per_page"))
	})
}

func TestSearchCompanies(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/companies/search/", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("q"))
		w.Write([]byte(`{"count": 1, "results": [{"id": 1, "name": "ABC Company"}]}`))
	}))

	raw, err := client.SearchCompanies(context.Background(), &DirectoryQuery{Query: "abc"})
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ABC Company")
}

func TestSearchContacts_CompanyFilter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/contacts/search/", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("company_id"))
		w.Write([]byte(`{"count": 0, "results": []}`))
	}))

	_, err := client.SearchContacts(context.Background(), &DirectoryQuery{Query: "smith", CompanyID: 7})
	require.NoError(t, err)
}

func TestTicketsByOwner(t *testing.T) {
	t.Run("company ids posted", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/tickets/by-company/", r.URL.Path)
			var body map[string][]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []int{1, 2}, body["company_ids"])
			w.Write([]byte(`{}`))
		}))

		_, err := client.TicketsByCompany(context.Background(), []int{1, 2})
		require.NoError(t, err)
	})

	t.Run("contact ids posted", func(t *testing.T) {
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/tickets/by-contact/", r.URL.Path)
			var body map[string][]int
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []int{9}, body["contact_ids"])
			w.Write([]byte(`{}`))
		}))

		_, err := client.TicketsByContact(context.Background(), []int{9})
		require.NoError(t, err)
	})

	t.Run("empty and oversized lists rejected locally", func(t *testing.T) {
		var hits atomic.Int32
		client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))

		_, err := client.TicketsByCompany(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))

		big := make([]int, 51)
		_, err = client.TicketsByContact(context.Background(), big)
		require.Error(t, err)
		assert.Equal(t, KindValidation, KindOf(err))

		assert.Equal(t, int32(0), hits.Load())
	})
}
