// Package provider defines the neutral shape upstream sources reduce their
// records to before normalization. The normalizer is written once against
// RawRecord; each source owns the mapping from its own wire format.
package provider

import "context"

// RawSponsor is one sponsorship entry as reported by a provider.
type RawSponsor struct {
	Name    string
	Primary bool
}

// RawAction is one discrete event as reported by a provider. All fields are
// optional; classification tags stay in the provider's vocabulary here.
type RawAction struct {
	Date           string
	Organization   string
	Classification []string
	Text           string
}

// RawRecord is one provider record before normalization. Source plus ID form
// the stable provider-namespaced identity. Every other field may be absent.
type RawRecord struct {
	Source           string
	ID               string
	Jurisdiction     string
	Session          string
	Number           string
	Title            string
	Summary          string
	URL              string
	Subjects         []string
	Sponsors         []RawSponsor
	Actions          []RawAction
	FirstActionDate  string
	LatestActionDate string
	EffectiveDate    string
}

// EmitFunc receives one record from a source's stream. Returning an error
// stops the stream; record-level processing failures are the caller's to
// swallow when the batch should continue.
type EmitFunc func(rec *RawRecord) error

// Source streams provider-neutral raw records. Implementations own transport
// and pagination; Fetch returns once the stream is exhausted or fails.
type Source interface {
	Name() string
	Fetch(ctx context.Context, emit EmitFunc) error
}
