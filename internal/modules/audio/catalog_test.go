package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
tracks:
  - id: bonk-anthem
    title: Bonk Anthem
    artist: Dog Choir
    category: Music
    tags: [hype, Meme]
    verified: true
    url: https://cdn.example.com/anthem.mp3
    duration: 183
  - id: bark-loop
    title: Bark Loop
    artist: Unknown
    category: sfx
    tags: [meme]
    url: https://cdn.example.com/bark.mp3
    duration: 4
  - id: chill
    title: Chill Paws
    artist: Lo-Fi Pup
    category: music
    verified: true
    url: https://cdn.example.com/chill.mp3
  - id: broken
    title: No URL
`

func loadTestCatalog(t *testing.T) *Catalog {
	c, err := ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	return c
}

func ids(tracks []Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}

func TestParseCatalog_DropsIncompleteEntries(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Equal(t, []string{"bonk-anthem", "bark-loop", "chill"}, ids(c.Tracks))
	assert.Equal(t, 183, c.Tracks[0].Duration)
	assert.Equal(t, []string{}, c.Tracks[2].Tags)
}

func TestQuery(t *testing.T) {
	c := loadTestCatalog(t)

	tests := []struct {
		name     string
		filter   Filter
		expected []string
	}{
		{"no filter", Filter{}, []string{"bonk-anthem", "bark-loop", "chill"}},
		{"category all", Filter{Category: "ALL"}, []string{"bonk-anthem", "bark-loop", "chill"}},
		{"verified only", Filter{VerifiedOnly: true}, []string{"bonk-anthem", "chill"}},
		{"category ignores case", Filter{Category: "music"}, []string{"bonk-anthem", "chill"}},
		{"tag ignores case", Filter{Tag: "MEME"}, []string{"bonk-anthem", "bark-loop"}},
		{"combined", Filter{VerifiedOnly: true, Tag: "meme"}, []string{"bonk-anthem"}},
		{"no match", Filter{Category: "podcast"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Query(tt.filter)
			assert.Equal(t, tt.expected, ids(result.Tracks))
			assert.Equal(t, len(tt.expected), result.Count)
		})
	}
}

func TestQuery_FacetsCoverWholeCatalog(t *testing.T) {
	result := loadTestCatalog(t).Query(Filter{Category: "sfx"})

	assert.Equal(t, []string{"music", "sfx"}, result.Categories)
	assert.Equal(t, []string{"hype", "meme"}, result.Tags)
}

func TestLoadCatalog(t *testing.T) {
	empty, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Empty(t, empty.Query(Filter{}).Tracks)

	path := filepath.Join(t.TempDir(), "audio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Tracks, 3)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tracks: [unclosed"), 0o644))
	_, err = LoadCatalog(bad)
	assert.ErrorContains(t, err, "failed to parse audio catalog")
}
