package mentions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/curlmap/backend/internal/cache"
	"github.com/zfogg/curlmap/backend/internal/models"
)

type fakeRoster struct {
	names []models.StylistName
	calls int
	err   error
}

func (f *fakeRoster) ListStylistNames(context.Context) ([]models.StylistName, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

func newDetector() (*Detector, *fakeRoster) {
	src := &fakeRoster{names: []models.StylistName{
		{ID: "sty-jane", Name: "Jane Doe"},
		{ID: "sty-ana", Name: "Ana  Ruiz"},
		{ID: "sty-blank", Name: "   "},
	}}
	return NewDetector(cache.NewMemoryStore(), src, 0), src
}

func TestDetectFullName(t *testing.T) {
	d, _ := newDetector()

	ids, err := d.Detect(context.Background(), "I had a great cut with JANE   doe last week", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sty-jane"}, ids)
}

func TestDetectScatteredTokens(t *testing.T) {
	d, _ := newDetector()

	ids, err := d.Detect(context.Background(), "Doe was recommended, Jane is her first name", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sty-jane"}, ids)
}

func TestDetectPartialNameDoesNotMatch(t *testing.T) {
	d, _ := newDetector()

	ids, err := d.Detect(context.Background(), "Jane at the front desk was really nice to me", nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NotNil(t, ids)
}

func TestDetectBareFirstNameMatches(t *testing.T) {
	d, _ := newDetector()

	// The whole text is contained in the stylist's name.
	ids, err := d.Detect(context.Background(), "  Jane ", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sty-jane"}, ids)
}

func TestDetectUsesTitle(t *testing.T) {
	d, _ := newDetector()
	title := "Ana Ruiz review"

	ids, err := d.Detect(context.Background(), "and also Jane Doe did my sister's hair", &title)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sty-jane", "sty-ana"}, ids)
}

func TestRosterIsCached(t *testing.T) {
	d, src := newDetector()
	ctx := context.Background()

	_, err := d.Detect(ctx, "Jane Doe is great with curls", nil)
	require.NoError(t, err)
	_, err = d.Detect(ctx, "Ana Ruiz is great with curls", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)

	src.names = append(src.names, models.StylistName{ID: "sty-new", Name: "Mia Chen"})
	ids, err := d.Detect(ctx, "Mia Chen just joined the salon", nil)
	require.NoError(t, err)
	assert.Empty(t, ids, "stale roster until the cache is cleared")

	require.NoError(t, d.ClearCache(ctx))
	ids, err = d.Detect(ctx, "Mia Chen just joined the salon", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"sty-new"}, ids)
	assert.Equal(t, 2, src.calls)
}

func TestRosterLoadError(t *testing.T) {
	src := &fakeRoster{err: errors.New("db down")}
	d := NewDetector(cache.NewMemoryStore(), src, 0)

	_, err := d.Detect(context.Background(), "Jane Doe is great with curls", nil)
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		text string
		who  string
		want float64
	}{
		{"exact", "jane doe", "Jane Doe", 1.0},
		{"text contains name", "ask jane doe about it", "Jane Doe", 0.8},
		{"name contains text", "jane", "Jane Doe", 0.8},
		{"all tokens", "doe and jane", "Jane Doe", 0.7},
		{"token substring", "janet doerr", "Jane Doe", 0.7},
		{"missing token", "jane smith", "Jane Doe", 0},
		{"empty name", "anything at all", "  ", 0},
		{"empty text", "", "Jane Doe", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.text, tt.who))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "jane doe", Normalize("  Jane \t\n DOE "))
	assert.Equal(t, "", Normalize("   "))
}
