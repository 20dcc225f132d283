// Package csvimport reads product records from spreadsheet exports.
package csvimport

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/sizzle/labelpress/internal/domain"
	"go.uber.org/zap"
)

// Row is one CSV line. Fields are kept as text and parsed leniently.
type Row struct {
	Name                  string `csv:"name"`
	Description           string `csv:"description"`
	Ingredients           string `csv:"ingredients"`
	Allergens             string `csv:"allergens"`
	ConsumptionGuidelines string `csv:"consumption_guidelines"`
	Price                 string `csv:"price"`
	IsVegan               string `csv:"is_vegan"`
	IsForStorytel         string `csv:"is_for_storytel"`
	IsOnlyForStorytel     string `csv:"is_only_for_storytel"`
	IsSnack               string `csv:"is_snack"`
	DeliveryDay           string `csv:"delivery_day"`
	WeekNumber            string `csv:"week_number"`
	DueDate               string `csv:"due_date"`
	FontSize              string `csv:"font_size"`

	TranslatedName                  string `csv:"translated_name"`
	TranslatedDescription           string `csv:"translated_description"`
	TranslatedIngredients           string `csv:"translated_ingredients"`
	TranslatedAllergens             string `csv:"translated_allergens"`
	TranslatedConsumptionGuidelines string `csv:"translated_consumption_guidelines"`
}

// RowError reports a line that could not be imported. Line counts the header as line 1.
type RowError struct {
	Line int
	Name string
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.Name, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Decode reads all rows. Header names are matched case-insensitively.
func Decode(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty CSV file", domain.ErrInvalidRequest)
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = normalizeHeader(h)
	}

	decoder, err := csvutil.NewDecoder(cr, header...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}

	var rows []Row
	if err := decoder.Decode(&rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}
	return rows, nil
}

// normalizeHeader maps "Week Number" and "week-number" to week_number.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// Record converts a row to a product record. Empty price means no price.
func (r Row) Record() (*domain.ProductRecord, error) {
	p := &domain.ProductRecord{
		Name:                  strings.TrimSpace(r.Name),
		Description:           strings.TrimSpace(r.Description),
		Ingredients:           strings.TrimSpace(r.Ingredients),
		Allergens:             strings.TrimSpace(r.Allergens),
		ConsumptionGuidelines: strings.TrimSpace(r.ConsumptionGuidelines),
	}

	var err error
	if p.Price, err = parsePrice(r.Price); err != nil {
		return nil, err
	}
	flags := []struct {
		raw string
		dst *bool
		col string
	}{
		{r.IsVegan, &p.IsVegan, "is_vegan"},
		{r.IsForStorytel, &p.IsForStorytel, "is_for_storytel"},
		{r.IsOnlyForStorytel, &p.IsOnlyForStorytel, "is_only_for_storytel"},
		{r.IsSnack, &p.IsSnack, "is_snack"},
	}
	for _, f := range flags {
		if *f.dst, err = parseFlag(f.raw); err != nil {
			return nil, fmt.Errorf("%s: %w", f.col, err)
		}
	}
	if p.DeliveryDay, err = domain.ParseDeliveryDay(r.DeliveryDay); err != nil {
		return nil, err
	}
	if p.WeekNumber, err = strconv.Atoi(strings.TrimSpace(r.WeekNumber)); err != nil {
		return nil, fmt.Errorf("%w: week_number %q is not a number", domain.ErrInvalidRequest, r.WeekNumber)
	}
	if p.DueDate, err = domain.ParseDate(r.DueDate); err != nil {
		return nil, err
	}
	if p.FontSize, err = domain.ParseFontSize(r.FontSize); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(r.TranslatedName); name != "" {
		p.Translation = &domain.TranslatedText{
			Name:                  name,
			Description:           strings.TrimSpace(r.TranslatedDescription),
			Ingredients:           strings.TrimSpace(r.TranslatedIngredients),
			Allergens:             strings.TrimSpace(r.TranslatedAllergens),
			ConsumptionGuidelines: strings.TrimSpace(r.TranslatedConsumptionGuidelines),
		}
	}
	return p, nil
}

func parsePrice(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	// spreadsheets exported with Swedish locale use a decimal comma
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: price %q is not a number", domain.ErrInvalidRequest, s)
	}
	return &v, nil
}

func parseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no", "nej", "n":
		return false, nil
	case "1", "true", "yes", "ja", "y", "x":
		return true, nil
	}
	return false, fmt.Errorf("%w: %q is not a yes/no value", domain.ErrInvalidRequest, s)
}

// Saver persists one product.
type Saver interface {
	Save(ctx context.Context, p *domain.ProductRecord) (*domain.ProductRecord, error)
}

// Summary is the outcome of an import.
type Summary struct {
	Imported int
	Failed   []RowError
}

// Importer saves CSV rows as new products.
type Importer struct {
	saver  Saver
	logger *zap.SugaredLogger
}

// NewImporter creates an importer.
func NewImporter(saver Saver, logger *zap.SugaredLogger) *Importer {
	return &Importer{saver: saver, logger: logger}
}

// Import saves every valid row. Invalid rows are reported and skipped;
// a cancelled context stops the import.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Summary, error) {
	rows, err := Decode(r)
	if err != nil {
		return nil, err
	}

	summary := &Summary{}
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		line := i + 2
		p, err := row.Record()
		if err == nil {
			_, err = im.saver.Save(ctx, p)
		}
		if err != nil {
			im.logger.Warnw("skipping row", "line", line, "name", row.Name, "error", err)
			summary.Failed = append(summary.Failed, RowError{Line: line, Name: row.Name, Err: err})
			continue
		}
		summary.Imported++
		if summary.Imported%100 == 0 {
			im.logger.Infow("import progress", "imported", summary.Imported)
		}
	}
	im.logger.Infow("import finished", "imported", summary.Imported, "failed", len(summary.Failed), "rows", len(rows))
	return summary, nil
}
