package pdf

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"github.com/sizzle/labelpress/internal/infrastructure/fonts"
	"github.com/sizzle/labelpress/internal/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var builtin = &fonts.Set{Family: fonts.BuiltinFamily, Builtin: true}

type stubFonts struct {
	set   *fonts.Set
	err   error
	calls int
}

func (s *stubFonts) Wait(ctx context.Context) (*fonts.Set, error) {
	s.calls++
	return s.set, s.err
}

func TestMetrics_Builtin(t *testing.T) {
	r, err := NewRenderer(builtin)
	require.NoError(t, err)
	m := r.Metrics()

	w10 := m.StringWidth("Kanelbulle", layout.FaceRegular, 10)
	w20 := m.StringWidth("Kanelbulle", layout.FaceRegular, 20)

	assert.Greater(t, w10, 0.0)
	assert.InDelta(t, 2*w10, w20, 1e-6)
	assert.Greater(t, m.StringWidth("Kanelbulle", layout.FaceBold, 10), w10)
	assert.Equal(t, 0.0, m.StringWidth("", layout.FaceRegular, 10))
}

func TestRenderer_Label(t *testing.T) {
	r, err := NewRenderer(builtin)
	require.NoError(t, err)
	composer, err := layout.NewLabelComposer(r.Metrics(), layout.LabelConfig{})
	require.NoError(t, err)

	doc := composer.Compose(&domain.ProductRecord{
		Name:        "Räkmacka",
		Ingredients: "räkor, ägg, majonnäs",
		Allergens:   "skaldjur, ägg",
		IsVegan:     true,
		WeekNumber:  12,
		DueDate:     domain.NewDate(2025, time.March, 14),
	}, domain.FontSizeNormal)

	var buf bytes.Buffer
	require.NoError(t, r.Render(doc, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderer_MenuPages(t *testing.T) {
	r, err := NewRenderer(builtin)
	require.NoError(t, err)
	composer := layout.NewMenuComposer(r.Metrics(), layout.MenuConfig{})

	var records []domain.ProductRecord
	for i := 0; i < 30; i++ {
		records = append(records, domain.ProductRecord{
			Name:        "Pasta med svamp",
			Description: "Krämig pasta med skogssvamp och parmesan",
			Allergens:   "gluten, mjölk",
			WeekNumber:  12,
			Translation: &domain.TranslatedText{Name: "Mushroom pasta", Allergens: "gluten, milk"},
		})
	}
	doc := composer.Compose(records, layout.MenuRequest{Channel: domain.ChannelStandard, Week: 12})
	require.Greater(t, len(doc.Pages), 1)

	var buf bytes.Buffer
	require.NoError(t, r.Render(doc, &buf))
	assert.Equal(t, len(doc.Pages), bytes.Count(buf.Bytes(), []byte("/Type /Page\n")))
}

func TestProvider(t *testing.T) {
	t.Run("builds renderer once", func(t *testing.T) {
		src := &stubFonts{set: builtin}
		p := NewProvider(src)

		first, err := p.Renderer(context.Background())
		require.NoError(t, err)
		second, err := p.Renderer(context.Background())
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, src.calls)
	})

	t.Run("font errors propagate and are retried", func(t *testing.T) {
		src := &stubFonts{err: domain.ErrFontsNotReady}
		p := NewProvider(src)

		_, err := p.Renderer(context.Background())
		assert.True(t, errors.Is(err, domain.ErrFontsNotReady))

		src.err, src.set = nil, builtin
		r, err := p.Renderer(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, r)
		assert.Equal(t, 2, src.calls)
	})
}
