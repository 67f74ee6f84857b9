package openstates

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avasalony-boop/policy-tracker/engine/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageOne = `{
  "results": [
    {
      "id": "ocd-bill/abc",
      "identifier": "SB 123",
      "title": "Automated decision systems",
      "summary": "Regulates automated decision tools.",
      "from_session": "20252026",
      "jurisdiction": {"name": "California"},
      "subject": ["TECHNOLOGY", "CONSUMER PROTECTION"],
      "sponsorships": [
        {"name": "", "primary": true, "person": {"name": "Sen. Rivera"}},
        {"name": "Sen. Okafor", "primary": false, "person": {"name": "Sen. Okafor"}}
      ],
      "actions": [
        {
          "date": "2025-01-10",
          "organization": {"name": "Senate"},
          "classification": ["introduced"],
          "description": "Introduced."
        }
      ],
      "first_action_date": "2025-01-10",
      "latest_action_date": "2025-02-01"
    }
  ]
}`

func newTestServer(t *testing.T) (*httptest.Server, *[]map[string]string) {
	t.Helper()
	var queries []map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/bills", func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		queries = append(queries, q)
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") == "1" {
			_, _ = w.Write([]byte(pageOne))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestSource_Fetch(t *testing.T) {
	t.Run("Should map API bills to raw records and stop on an empty page", func(t *testing.T) {
		srv, queries := newTestServer(t)
		src := New(Config{
			APIKey:        "test-key",
			BaseURL:       srv.URL,
			Query:         "automated decision",
			Jurisdictions: []string{"CA"},
			UpdatedSince:  "2025-01-01",
		})

		var records []*provider.RawRecord
		err := src.Fetch(t.Context(), func(rec *provider.RawRecord) error {
			records = append(records, rec)
			return nil
		})
		require.NoError(t, err)
		require.Len(t, records, 1)

		rec := records[0]
		assert.Equal(t, "openstates", rec.Source)
		assert.Equal(t, "ocd-bill/abc", rec.ID)
		assert.Equal(t, "California", rec.Jurisdiction)
		assert.Equal(t, "SB 123", rec.Number)
		assert.Equal(t, []string{"TECHNOLOGY", "CONSUMER PROTECTION"}, rec.Subjects)
		assert.Equal(t, "2025-01-10", rec.FirstActionDate)
		assert.Equal(t, "2025-02-01", rec.LatestActionDate)

		require.Len(t, rec.Sponsors, 2)
		assert.Equal(t, "Sen. Rivera", rec.Sponsors[0].Name, "falls back to person name")
		assert.True(t, rec.Sponsors[0].Primary)

		require.Len(t, rec.Actions, 1)
		assert.Equal(t, "Senate", rec.Actions[0].Organization)
		assert.Equal(t, []string{"introduced"}, rec.Actions[0].Classification)
		assert.Equal(t, "Introduced.", rec.Actions[0].Text)

		// Two requests: the result page and the terminating empty page.
		require.Len(t, *queries, 2)
		first := (*queries)[0]
		assert.Equal(t, "CA", first["jurisdiction"])
		assert.Equal(t, "automated decision", first["q"])
		assert.Equal(t, "2025-01-01", first["updated_since"])
		assert.Equal(t, "updated_at", first["sort"])
	})

	t.Run("Should omit the jurisdiction param when none is configured", func(t *testing.T) {
		srv, queries := newTestServer(t)
		src := New(Config{APIKey: "test-key", BaseURL: srv.URL})

		err := src.Fetch(t.Context(), func(*provider.RawRecord) error { return nil })
		require.NoError(t, err)
		require.NotEmpty(t, *queries)
		_, present := (*queries)[0]["jurisdiction"]
		assert.False(t, present)
	})

	t.Run("Should surface emit errors to the caller", func(t *testing.T) {
		srv, _ := newTestServer(t)
		src := New(Config{APIKey: "test-key", BaseURL: srv.URL})

		err := src.Fetch(t.Context(), func(*provider.RawRecord) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
	})
}
