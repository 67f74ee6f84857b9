package rssfeed

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/avasalony-boop/policy-tracker/engine/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssPayload = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>State Register</title>
    <item>
      <title>New biometric privacy rulemaking announced</title>
      <link>https://example.gov/reg/1</link>
      <description>Comment period opens for biometric data rules.</description>
    </item>
    <item>
      <title>Agency picnic scheduled</title>
      <link>https://example.gov/news/2</link>
      <description>Annual staff gathering.</description>
    </item>
  </channel>
</rss>`

const atomPayload = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Eviction moratorium guidance</title>
    <summary>Guidance on the eviction filing process.</summary>
    <link href="https://example.gov/atom/1"/>
  </entry>
</feed>`

func TestParseDocument(t *testing.T) {
	t.Run("Should extract RSS channel items", func(t *testing.T) {
		items, err := parseDocument([]byte(rssPayload))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "New biometric privacy rulemaking announced", items[0].Title)
		assert.Equal(t, "https://example.gov/reg/1", items[0].Link)
	})

	t.Run("Should extract Atom entries", func(t *testing.T) {
		items, err := parseDocument([]byte(atomPayload))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Eviction moratorium guidance", items[0].Title)
		assert.Equal(t, "https://example.gov/atom/1", items[0].Link)
		assert.Equal(t, "Guidance on the eviction filing process.", items[0].Summary)
	})

	t.Run("Should fail on malformed xml", func(t *testing.T) {
		_, err := parseDocument([]byte("<rss><channel>"))
		assert.Error(t, err)
	})
}

func TestMatchFilters(t *testing.T) {
	t.Run("Should admit everything when include is empty", func(t *testing.T) {
		assert.True(t, matchFilters("any title", "any summary", nil, nil))
	})

	t.Run("Should require one include keyword", func(t *testing.T) {
		assert.True(t, matchFilters("Biometric rules", "", []string{"biometric"}, nil))
		assert.False(t, matchFilters("Budget notice", "", []string{"biometric"}, nil))
	})

	t.Run("Should match includes against the summary too", func(t *testing.T) {
		assert.True(t, matchFilters("Notice", "about TELEHEALTH coverage", []string{"telehealth"}, nil))
	})

	t.Run("Should drop items hitting an exclude keyword", func(t *testing.T) {
		assert.False(t, matchFilters("Biometric webinar recording", "", []string{"biometric"}, []string{"webinar"}))
	})
}

func TestLoadFeeds(t *testing.T) {
	t.Run("Should load feed entries from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feeds.yml")
		content := `
- url: https://example.gov/feed.rss
  state: CA
  topic: privacy
  include: [biometric, "data broker"]
  exclude: [webinar]
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		feeds, err := LoadFeeds(path)
		require.NoError(t, err)
		require.Len(t, feeds, 1)
		assert.Equal(t, "https://example.gov/feed.rss", feeds[0].URL)
		assert.Equal(t, "CA", feeds[0].State)
		assert.Equal(t, []string{"biometric", "data broker"}, feeds[0].Include)
	})

	t.Run("Should treat a missing file as an empty list", func(t *testing.T) {
		feeds, err := LoadFeeds(filepath.Join(t.TempDir(), "absent.yml"))
		require.NoError(t, err)
		assert.Empty(t, feeds)
	})
}

func TestSource_Fetch(t *testing.T) {
	t.Run("Should emit filtered records and skip broken feeds", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/broken" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(rssPayload))
		}))
		t.Cleanup(srv.Close)

		src := New([]Feed{
			{URL: srv.URL + "/broken", State: "NY"},
			{URL: srv.URL + "/register", State: "CA", Include: []string{"biometric"}},
		})

		var records []*provider.RawRecord
		err := src.Fetch(t.Context(), func(rec *provider.RawRecord) error {
			records = append(records, rec)
			return nil
		})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "rss", records[0].Source)
		assert.Equal(t, "https://example.gov/reg/1", records[0].ID)
		assert.Equal(t, "CA", records[0].Jurisdiction)
		assert.Empty(t, records[0].Actions)
	})
}
