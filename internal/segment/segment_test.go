package segment

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const digest = "Top job picks for you PHP Developer JotForm · Ankara, Turkey Actively recruiting Easy Apply " +
	"Gerçek Zamanlı Yazılım Mühendisi Aselsan · Ankara, Türkiye Actively recruiting Easy Apply " +
	"Back End Developer Rootie · Ankara, Turkey Easy Apply See all jobs"

func TestTrailing(t *testing.T) {
	got := Collect(Segment(digest, Trailing(DefaultTrailer)))
	require.Len(t, got, 3)

	assert.Equal(t, "Top job picks for you PHP Developer JotForm · Ankara, Turkey", got[0].Text)
	assert.Equal(t, "Actively recruiting Easy Apply", got[0].Marker)
	assert.Equal(t, "Gerçek Zamanlı Yazılım Mühendisi Aselsan · Ankara, Türkiye", got[1].Text)
	assert.Equal(t, "Back End Developer Rootie · Ankara, Turkey", got[2].Text)
	assert.Equal(t, "Easy Apply", got[2].Marker)
	for i, s := range got {
		assert.Equal(t, i, s.Index)
	}
}

func TestTrailingSkipsEmptySections(t *testing.T) {
	got := Collect(Segment("Easy Apply   Easy Apply PHP Developer Easy Apply", Trailing(DefaultTrailer)))
	require.Len(t, got, 1)
	assert.Equal(t, "PHP Developer", got[0].Text)
	assert.Equal(t, 0, got[0].Index)
}

func TestLeading(t *testing.T) {
	text := `<div>header</div>` +
		`<table id="applied_jobs-1-applied_job"><a href="/jobs/view/1">A</a></table>` +
		`<table id="applied_jobs-2-applied_job"><a href="/jobs/view/2">B</a></table>`

	got := Collect(Segment(text, Leading(AppliedMarker)))
	require.Len(t, got, 2)
	assert.Equal(t, "applied_jobs-1-applied_job", got[0].Marker)
	assert.Equal(t, `applied_jobs-1-applied_job"><a href="/jobs/view/1">A</a></table><table id="`, got[0].Text)
	assert.Equal(t, `applied_jobs-2-applied_job"><a href="/jobs/view/2">B</a></table>`, got[1].Text)
	assert.NotContains(t, got[0].Text, "header")
}

func TestNoMarkers(t *testing.T) {
	assert.Empty(t, Collect(Segment("nothing here", Trailing(DefaultTrailer))))
	assert.Empty(t, Collect(Segment("nothing here", Leading(AppliedMarker))))
	assert.Empty(t, Collect(Segment("", Trailing(DefaultTrailer))))
	assert.Empty(t, Collect(Segment("Easy Apply", Mode{})))
}

func TestSequenceIsRestartable(t *testing.T) {
	seq := Segment(digest, Trailing(DefaultTrailer))
	first := Collect(seq)
	second := Collect(seq)
	assert.Equal(t, first, second)
}

func TestEarlyStop(t *testing.T) {
	var seen []string
	for s := range Segment(digest, Trailing(DefaultTrailer)) {
		seen = append(seen, s.Text)
		break
	}
	assert.Len(t, seen, 1)
}

func TestCustomMarker(t *testing.T) {
	re := regexp.MustCompile(`--`)
	got := Collect(Segment("a--b--c", Leading(re)))
	require.Len(t, got, 2)
	assert.Equal(t, "--b", got[0].Text)
	assert.Equal(t, "--c", got[1].Text)
}
