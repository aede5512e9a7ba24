package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDisabledProfile verifies every demographic field carries the sentinel
// and every total is zero
func TestDisabledProfile(t *testing.T) {
	p := DisabledProfile(4242, "Quiet Writer", "https://www.scribblehub.com/profile/4242/quiet-writer/")

	assert.True(t, p.Disabled)
	assert.Equal(t, 4242, p.UID)
	assert.Equal(t, "Quiet Writer", p.Name)
	assert.Equal(t, DefaultAvatar, p.Avatar)
	assert.Equal(t, DisabledBio, p.Bio)

	for _, field := range []string{p.LastActive, p.Birthday, p.Gender, p.Location, p.Homepage} {
		assert.Equal(t, DisabledField, field)
	}

	assert.Zero(t, p.TotalSeries)
	assert.Zero(t, p.TotalWords)
	assert.Zero(t, p.TotalViews)
	assert.Zero(t, p.TotalReviews)
	assert.Zero(t, p.TotalReaders)
	assert.Zero(t, p.TotalFollowers)
}

// TestStorySummary_JSONFieldNames verifies the wire names used by the API and
// the persisted cache
func TestStorySummary_JSONFieldNames(t *testing.T) {
	s := StorySummary{Title: "A", URL: "u", Views: "1.2k", ChaptersPerWeek: 3}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1.2k", raw["views"])
	assert.Equal(t, float64(3), raw["chapters_per_week"])
	assert.Contains(t, raw, "short_synopsis")
	assert.Contains(t, raw, "creator_url")
}
