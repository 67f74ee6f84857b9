package rssfeed

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Feed is one configured feed entry from feeds.yml. Include/Exclude are
// plain keyword filters applied to title+summary.
type Feed struct {
	URL     string   `yaml:"url"`
	State   string   `yaml:"state"`
	Topic   string   `yaml:"topic"`
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`
}

// LoadFeeds reads the feed list from a yaml file. A missing file is an empty
// list, not an error, so the RSS source can be configured away.
func LoadFeeds(path string) ([]Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("rssfeed: read feeds config: %w", err)
	}
	var feeds []Feed
	if err := yaml.Unmarshal(data, &feeds); err != nil {
		return nil, fmt.Errorf("rssfeed: parse feeds config: %w", err)
	}
	return feeds, nil
}

// item is one entry extracted from a feed document, format-neutral.
type item struct {
	Title   string
	Summary string
	Link    string
}

// rssDocument decodes both RSS 2.0 (channel/item) and Atom (entry) payloads;
// whichever set of elements is present wins.
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Entries []atomEntry `xml:"entry"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
	Link    struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
}

func parseDocument(data []byte) ([]item, error) {
	var doc rssDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("rssfeed: decode feed: %w", err)
	}
	items := make([]item, 0, len(doc.Channel.Items)+len(doc.Entries))
	for _, it := range doc.Channel.Items {
		items = append(items, item{
			Title:   strings.TrimSpace(it.Title),
			Summary: strings.TrimSpace(it.Description),
			Link:    strings.TrimSpace(it.Link),
		})
	}
	for _, e := range doc.Entries {
		items = append(items, item{
			Title:   strings.TrimSpace(e.Title),
			Summary: strings.TrimSpace(e.Summary),
			Link:    strings.TrimSpace(e.Link.Href),
		})
	}
	return items, nil
}

// matchFilters applies include/exclude keywords against title and summary,
// case-insensitively. An empty include list admits everything.
func matchFilters(title, summary string, include, exclude []string) bool {
	t := strings.ToLower(title)
	s := strings.ToLower(summary)
	if len(include) > 0 {
		hit := false
		for _, k := range include {
			k = strings.ToLower(k)
			if strings.Contains(t, k) || strings.Contains(s, k) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	for _, k := range exclude {
		k = strings.ToLower(k)
		if strings.Contains(t, k) || strings.Contains(s, k) {
			return false
		}
	}
	return true
}
