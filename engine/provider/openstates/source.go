// Package openstates streams bill records from the OpenStates v3 API.
package openstates

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/avasalony-boop/policy-tracker/engine/provider"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const (
	SourceName = "openstates"

	defaultBaseURL = "https://v3.openstates.org"
	defaultPerPage = 50
	defaultTimeout = 30 * time.Second
)

// Config carries the API credentials and the search window for one run.
type Config struct {
	APIKey        string
	BaseURL       string
	Query         string
	Jurisdictions []string
	UpdatedSince  string
	PerPage       int
	Timeout       time.Duration
}

// Source pages through /bills search results and emits provider-neutral
// records. It does not retry failed requests.
type Source struct {
	client *resty.Client
	cfg    Config
}

func New(cfg Config) *Source {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = defaultPerPage
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("X-API-KEY", cfg.APIKey)
	return &Source{client: client, cfg: cfg}
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch walks every configured jurisdiction (or a single unscoped search
// when none are configured) page by page until a page comes back empty.
func (s *Source) Fetch(ctx context.Context, emit provider.EmitFunc) error {
	jurisdictions := s.cfg.Jurisdictions
	if len(jurisdictions) == 0 {
		jurisdictions = []string{""}
	}
	for _, jurisdiction := range jurisdictions {
		if err := s.fetchJurisdiction(ctx, jurisdiction, emit); err != nil {
			return err
		}
	}
	return nil
}

func (s *Source) fetchJurisdiction(ctx context.Context, jurisdiction string, emit provider.EmitFunc) error {
	log := logger.FromContext(ctx).With("source", SourceName, "jurisdiction", jurisdiction)
	for page := 1; ; page++ {
		var result billPage
		req := s.client.R().
			SetContext(ctx).
			SetResult(&result).
			SetQueryParams(map[string]string{
				"q":             s.cfg.Query,
				"updated_since": s.cfg.UpdatedSince,
				"sort":          "updated_at",
				"per_page":      strconv.Itoa(s.cfg.PerPage),
				"page":          strconv.Itoa(page),
				"include":       "sponsorships,actions,subject,related_bills",
			})
		if jurisdiction != "" {
			req.SetQueryParam("jurisdiction", jurisdiction)
		}
		resp, err := req.Get("/bills")
		if err != nil {
			return fmt.Errorf("openstates: fetch bills page %d: %w", page, err)
		}
		if resp.IsError() {
			return fmt.Errorf("openstates: fetch bills page %d: %s", page, resp.Status())
		}
		if len(result.Results) == 0 {
			return nil
		}
		log.Debug("Fetched bills page", "page", page, "results", len(result.Results))
		for i := range result.Results {
			if err := emit(toRaw(&result.Results[i])); err != nil {
				return err
			}
		}
	}
}

type billPage struct {
	Results []apiBill `json:"results"`
}

type apiBill struct {
	ID               string           `json:"id"`
	Identifier       string           `json:"identifier"`
	Title            string           `json:"title"`
	Summary          string           `json:"summary"`
	Session          string           `json:"from_session"`
	Jurisdiction     apiNamed         `json:"jurisdiction"`
	Subject          []string         `json:"subject"`
	Sponsorships     []apiSponsorship `json:"sponsorships"`
	Actions          []apiAction      `json:"actions"`
	FirstActionDate  string           `json:"first_action_date"`
	LatestActionDate string           `json:"latest_action_date"`
}

type apiNamed struct {
	Name string `json:"name"`
}

type apiSponsorship struct {
	Name    string   `json:"name"`
	Primary bool     `json:"primary"`
	Person  apiNamed `json:"person"`
}

type apiAction struct {
	Date           string   `json:"date"`
	Organization   apiNamed `json:"organization"`
	Classification []string `json:"classification"`
	Description    string   `json:"description"`
}

func toRaw(b *apiBill) *provider.RawRecord {
	rec := &provider.RawRecord{
		Source:           SourceName,
		ID:               b.ID,
		Jurisdiction:     b.Jurisdiction.Name,
		Session:          b.Session,
		Number:           b.Identifier,
		Title:            b.Title,
		Summary:          b.Summary,
		Subjects:         b.Subject,
		FirstActionDate:  b.FirstActionDate,
		LatestActionDate: b.LatestActionDate,
	}
	for i := range b.Sponsorships {
		name := b.Sponsorships[i].Name
		if name == "" {
			name = b.Sponsorships[i].Person.Name
		}
		rec.Sponsors = append(rec.Sponsors, provider.RawSponsor{
			Name:    name,
			Primary: b.Sponsorships[i].Primary,
		})
	}
	for i := range b.Actions {
		rec.Actions = append(rec.Actions, provider.RawAction{
			Date:           b.Actions[i].Date,
			Organization:   b.Actions[i].Organization.Name,
			Classification: b.Actions[i].Classification,
			Text:           b.Actions[i].Description,
		})
	}
	return rec
}
