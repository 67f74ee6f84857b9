package bill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	t.Run("Should default to INTRODUCED for empty history", func(t *testing.T) {
		assert.Equal(t, StatusIntroduced, DeriveStatus(nil))
		assert.Equal(t, StatusIntroduced, DeriveStatus([]Action{}))
	})

	t.Run("Should default to INTRODUCED when no tag is recognized", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-02", Classification: []string{"amendment-introduction"}},
			{Date: "2025-01-05", Classification: []string{"withdrawal"}},
		}
		assert.Equal(t, StatusIntroduced, DeriveStatus(actions))
	})

	t.Run("Should let the chronologically last recognized tag win", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"introduced"}},
			{Date: "2025-02-01", Classification: []string{"committee-passage"}},
			{Date: "2025-03-01", Classification: []string{"reading-2"}},
		}
		assert.Equal(t, StatusOnFloor, DeriveStatus(actions))
	})

	t.Run("Should regress when a lower step sorts later", func(t *testing.T) {
		// Last-write-wins on purpose: a later referral overwrites an earlier
		// floor passage.
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"floor-passage"}},
			{Date: "2025-04-01", Classification: []string{"committee-referral"}},
		}
		assert.Equal(t, StatusInCommittee, DeriveStatus(actions))
	})

	t.Run("Should walk in date order regardless of input order", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-03-01", Classification: []string{"reading-3"}},
			{Date: "2025-01-01", Classification: []string{"introduced"}},
		}
		assert.Equal(t, StatusOnFloor, DeriveStatus(actions))
	})

	t.Run("Should sort absent dates first", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"committee-referral"}},
			{Date: "", Classification: []string{"introduced"}},
		}
		assert.Equal(t, StatusInCommittee, DeriveStatus(actions))
	})

	t.Run("Should preserve input order for equal dates", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"committee-referral"}},
			{Date: "2025-01-01", Classification: []string{"committee-passage"}},
		}
		assert.Equal(t, StatusReported, DeriveStatus(actions))

		swapped := []Action{actions[1], actions[0]}
		assert.Equal(t, StatusInCommittee, DeriveStatus(swapped))
	})

	t.Run("Should not move the status on a single passage", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"reading-3"}},
			{Date: "2025-02-01", Classification: []string{"passage"}},
		}
		assert.Equal(t, StatusOnFloor, DeriveStatus(actions))
	})

	t.Run("Should escalate to PASSED_LEGISLATURE on two passages", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"passage"}},
			{Date: "2025-02-01", Classification: []string{"passage"}},
			{Date: "2025-03-01", Classification: []string{"committee-referral"}},
		}
		// Escalation wins even though a lower step sorts after both passages.
		assert.Equal(t, StatusPassedLegislature, DeriveStatus(actions))
	})

	t.Run("Should set terminal VETOED when the history ends with a veto", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"introduced"}},
			{Date: "2025-02-01", Classification: []string{"committee-passage"}},
			{Date: "2025-03-01", Classification: []string{"veto"}},
		}
		assert.Equal(t, StatusVetoed, DeriveStatus(actions))
	})

	t.Run("Should set ENACTED from any of its tag synonyms", func(t *testing.T) {
		for _, tag := range []string{"executive-signature", "enacted", "chaptered"} {
			actions := []Action{
				{Date: "2025-01-01", Classification: []string{"introduced"}},
				{Date: "2025-06-01", Classification: []string{tag}},
			}
			assert.Equal(t, StatusEnacted, DeriveStatus(actions), "tag %q", tag)
		}
	})

	t.Run("Should ignore unknown tags mixed into a classification set", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"filing", "introduced", "reading-0"}},
		}
		assert.Equal(t, StatusIntroduced, DeriveStatus(actions))
	})

	t.Run("Should be deterministic for a fixed sequence", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-01-01", Classification: []string{"introduced"}},
			{Date: "2025-02-01", Classification: []string{"referral"}},
			{Date: "2025-03-01", Classification: []string{"committee-passage-favorable"}},
		}
		first := DeriveStatus(actions)
		for range 10 {
			assert.Equal(t, first, DeriveStatus(actions))
		}
	})

	t.Run("Should not mutate the caller's slice order", func(t *testing.T) {
		actions := []Action{
			{Date: "2025-03-01", Classification: []string{"veto"}},
			{Date: "2025-01-01", Classification: []string{"introduced"}},
		}
		DeriveStatus(actions)
		assert.Equal(t, "2025-03-01", actions[0].Date)
	})
}
