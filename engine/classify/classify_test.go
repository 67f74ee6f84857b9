package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	t.Run("Should match topics case-insensitively", func(t *testing.T) {
		topics := Label("An act relating to ARTIFICIAL INTELLIGENCE in hiring")
		assert.True(t, topics.AI)
		assert.False(t, topics.Privacy)
		assert.False(t, topics.Housing)
		assert.False(t, topics.Healthcare)
	})

	t.Run("Should set topics independently when text spans several", func(t *testing.T) {
		topics := Label("Generative AI disclosures in tenant screening reports")
		assert.True(t, topics.AI)
		assert.True(t, topics.Housing)
		assert.False(t, topics.Privacy)
	})

	t.Run("Should respect word boundaries", func(t *testing.T) {
		assert.False(t, Label("devictions newsletter").Housing)
		assert.True(t, Label("relating to eviction records").Housing)
	})

	t.Run("Should return no topics for unrelated text", func(t *testing.T) {
		topics := Label("An act concerning the state fish")
		assert.Empty(t, topics.List())
	})

	t.Run("Should share the health data pattern between privacy and healthcare", func(t *testing.T) {
		topics := Label("protections for health data")
		assert.True(t, topics.Privacy)
		assert.True(t, topics.Healthcare)
	})
}

func TestBuildLabels(t *testing.T) {
	t.Run("Should set vertical when housing is present", func(t *testing.T) {
		labels := BuildLabels("openstates:b1", "Fair housing enforcement", "")
		assert.Equal(t, "openstates:b1", labels.BillUID)
		assert.Equal(t, []string{"housing"}, labels.Topics)
		assert.Equal(t, Vertical, labels.Vertical)
		assert.Equal(t, 20, labels.ImpactScore)
	})

	t.Run("Should raise the impact score for ai or privacy", func(t *testing.T) {
		labels := BuildLabels("openstates:b2", "Biometric data broker registry", "")
		assert.Equal(t, 50, labels.ImpactScore)
		assert.Empty(t, labels.Vertical)
	})

	t.Run("Should combine vertical and raised score when both apply", func(t *testing.T) {
		labels := BuildLabels("openstates:b3", "Machine learning in telehealth", "prior authorization rules")
		assert.Equal(t, 50, labels.ImpactScore)
		assert.Equal(t, Vertical, labels.Vertical)
		assert.ElementsMatch(t, []string{"ai", "healthcare"}, labels.Topics)
	})

	t.Run("Should produce an empty topic list with default score for plain text", func(t *testing.T) {
		labels := BuildLabels("rss:item", "Budget hearing scheduled", "")
		assert.Empty(t, labels.Topics)
		assert.Empty(t, labels.Vertical)
		assert.Equal(t, 20, labels.ImpactScore)
	})
}
