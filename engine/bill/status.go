package bill

import (
	"slices"
	"sort"
)

// TagPassage marks a full chamber passage vote. It is counted across the
// whole history rather than walked: two or more passage actions escalate the
// bill to PASSED_LEGISLATURE.
const TagPassage = "passage"

// statusByTag maps provider classification vocabulary to the coarse
// canonical status. Unknown tags contribute nothing to derivation.
var statusByTag = map[string]Status{
	"introduced":                  StatusIntroduced,
	"referral":                    StatusInCommittee,
	"committee-referral":          StatusInCommittee,
	"committee-passage":           StatusReported,
	"committee-passage-favorable": StatusReported,
	"reading-1":                   StatusOnFloor,
	"reading-2":                   StatusOnFloor,
	"reading-3":                   StatusOnFloor,
	"floor-passage":               StatusOnFloor,
	TagPassage:                    StatusPassedChamber,
	"executive-signature":         StatusEnacted,
	"enacted":                     StatusEnacted,
	"chaptered":                   StatusEnacted,
	"veto":                        StatusVetoed,
}

// DeriveStatus reduces a bill's full action history to one canonical status.
//
// Actions are walked in chronological order (stable sort on date, absent
// dates sort first) and each recognized tag overwrites the running status.
// This is deliberately last-write-wins, not a monotonic max: a recognized
// lower step that sorts later regresses the status, and downstream consumers
// depend on that behavior. The one cumulative rule is chamber passage: when
// at least two actions anywhere in the history carry the passage tag, the
// walk short-circuits to PASSED_LEGISLATURE the moment a passage tag is
// reached. A single passage tag updates nothing on its own. Empty input or a
// history with no recognized tags yields INTRODUCED.
func DeriveStatus(actions []Action) Status {
	ordered := make([]Action, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})
	passages := 0
	for i := range actions {
		if slices.Contains(actions[i].Classification, TagPassage) {
			passages++
		}
	}
	status := StatusIntroduced
	for i := range ordered {
		for _, tag := range ordered[i].Classification {
			mapped, ok := statusByTag[tag]
			if !ok {
				continue
			}
			if mapped == StatusPassedChamber {
				if passages >= 2 {
					return StatusPassedLegislature
				}
				continue
			}
			status = mapped
		}
	}
	return status
}
