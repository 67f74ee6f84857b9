// Package normalize reduces provider-neutral raw records to the canonical
// bill representation. It is a pure transformation: no network, no storage,
// and no failure mode — absent input fields stay absent on the output.
package normalize

import (
	"strings"
	"time"

	"github.com/avasalony-boop/policy-tracker/engine/bill"
	"github.com/avasalony-boop/policy-tracker/engine/provider"
)

const committeeCap = 10

// Record maps one raw record to its canonical bill and action list. The
// canonical status is derived from the full action history; subjects pass
// through verbatim; the committee list keeps first-seen order, deduplicated
// by organization name and capped.
func Record(rec *provider.RawRecord, now time.Time) (*bill.Bill, []bill.Action) {
	actions := canonicalActions(rec.Actions)
	b := &bill.Bill{
		UID:            UID(rec.Source, rec.ID),
		Source:         rec.Source,
		Jurisdiction:   rec.Jurisdiction,
		Session:        rec.Session,
		Number:         rec.Number,
		Title:          rec.Title,
		Summary:        rec.Summary,
		Subjects:       strings.Join(rec.Subjects, ","),
		SponsorPrimary: primarySponsor(rec.Sponsors),
		Committees:     strings.Join(committees(rec.Actions), ","),
		Status:         bill.DeriveStatus(actions),
		IntroducedDate: rec.FirstActionDate,
		EffectiveDate:  rec.EffectiveDate,
		LastActionDate: lastActionDate(rec, actions),
		UpdatedAt:      now.UTC().Format(time.RFC3339),
	}
	return b, actions
}

// UID builds the provider-namespaced bill identity.
func UID(source, id string) string {
	return source + ":" + id
}

func canonicalActions(raw []provider.RawAction) []bill.Action {
	if len(raw) == 0 {
		return nil
	}
	actions := make([]bill.Action, 0, len(raw))
	for i := range raw {
		actions = append(actions, bill.Action{
			Date:           raw[i].Date,
			Organization:   raw[i].Organization,
			Classification: raw[i].Classification,
			Text:           raw[i].Text,
		})
	}
	return actions
}

// primarySponsor returns the first sponsor flagged primary, or "" when none.
func primarySponsor(sponsors []provider.RawSponsor) string {
	for i := range sponsors {
		if sponsors[i].Primary {
			return sponsors[i].Name
		}
	}
	return ""
}

// committees collects distinct action organizations in order of first
// appearance, capped at committeeCap entries.
func committees(actions []provider.RawAction) []string {
	var out []string
	seen := make(map[string]struct{})
	for i := range actions {
		org := actions[i].Organization
		if org == "" {
			continue
		}
		if _, ok := seen[org]; ok {
			continue
		}
		seen[org] = struct{}{}
		out = append(out, org)
		if len(out) == committeeCap {
			break
		}
	}
	return out
}

// lastActionDate prefers the provider's latest-action date and falls back to
// the date of the last action as supplied.
func lastActionDate(rec *provider.RawRecord, actions []bill.Action) string {
	if rec.LatestActionDate != "" {
		return rec.LatestActionDate
	}
	if len(actions) > 0 {
		return actions[len(actions)-1].Date
	}
	return ""
}
