// Package classify labels bill text with policy topics and derives the
// client-facing grouping and impact score from them. All lookup tables are
// immutable and built at init; matching is pure.
package classify

import (
	"regexp"
	"strings"

	"github.com/avasalony-boop/policy-tracker/engine/bill"
)

const (
	TopicAI         = "ai"
	TopicPrivacy    = "privacy"
	TopicHousing    = "housing"
	TopicHealthcare = "healthcare"

	// Vertical is attached when housing or healthcare is present.
	Vertical = "property_mgmt,healthcare"

	impactHigh    = 50
	impactDefault = 20
)

var aiPatterns = compile(
	`artificial intelligence`,
	`\balgorithmic\b`,
	`automated decision`,
	`\bdeepfake\b`,
	`synthetic media`,
	`\bgenerative\b`,
	`machine learning`,
)

var privacyPatterns = compile(
	`consumer data privacy`,
	`\bbiometric\b`,
	`data broker`,
	`children'?s privacy`,
	`health data`,
	`data minimization`,
	`sensitive data`,
)

var housingPatterns = compile(
	`tenant screening`,
	`rental application`,
	`\beviction\b`,
	`fair housing`,
	`rent cap`,
	`security deposit`,
	`habitability`,
	`source of income`,
)

var healthcarePatterns = compile(
	`\btelehealth\b`,
	`\btelemedicine\b`,
	`prior authorization`,
	`utilization management`,
	`clinical decision support`,
	`health data`,
	`HIPAA`,
)

func compile(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(`(?i)`+p))
	}
	return res
}

// Topics is the set of boolean topic flags for one record. Flags are
// independent: a record may carry none, any subset, or all of them.
type Topics struct {
	AI         bool
	Privacy    bool
	Housing    bool
	Healthcare bool
}

// List returns the set topics as names, in a fixed order.
func (t Topics) List() []string {
	var out []string
	if t.AI {
		out = append(out, TopicAI)
	}
	if t.Privacy {
		out = append(out, TopicPrivacy)
	}
	if t.Housing {
		out = append(out, TopicHousing)
	}
	if t.Healthcare {
		out = append(out, TopicHealthcare)
	}
	return out
}

// Label matches text against every topic's pattern list. Each flag is true
// iff at least one of its patterns matches case-insensitively anywhere.
func Label(text string) Topics {
	return Topics{
		AI:         anyMatch(aiPatterns, text),
		Privacy:    anyMatch(privacyPatterns, text),
		Housing:    anyMatch(housingPatterns, text),
		Healthcare: anyMatch(healthcarePatterns, text),
	}
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// BuildLabels runs the classifier over a bill's title and summary and
// derives the labels row: vertical iff a housing or healthcare topic is set,
// impact score raised iff ai or privacy is set.
func BuildLabels(billUID, title, summary string) *bill.Labels {
	topics := Label(strings.TrimSpace(title + " " + summary))
	labels := &bill.Labels{
		BillUID:     billUID,
		Topics:      topics.List(),
		ImpactScore: impactDefault,
	}
	if topics.Housing || topics.Healthcare {
		labels.Vertical = Vertical
	}
	if topics.AI || topics.Privacy {
		labels.ImpactScore = impactHigh
	}
	return labels
}
