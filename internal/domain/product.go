package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFmt is the calendar date layout used for due dates on labels and in storage.
const DateFmt = "2006-01-02"

// ProductRecord is a single product as entered by staff through the label form.
type ProductRecord struct {
	ID                    string          `json:"id"`
	Name                  string          `json:"name" binding:"required"`
	Description           string          `json:"description"`
	Ingredients           string          `json:"ingredients"`
	Allergens             string          `json:"allergens"`
	ConsumptionGuidelines string          `json:"consumptionGuidelines"`
	Price                 *float64        `json:"price,omitempty"`
	IsVegan               bool            `json:"isVegan"`
	IsForStorytel         bool            `json:"isForStorytel"`
	IsOnlyForStorytel     bool            `json:"isOnlyForStorytel"`
	IsSnack               bool            `json:"isSnack"`
	DeliveryDay           DeliveryDay     `json:"deliveryDay,omitempty"`
	WeekNumber            int             `json:"weekNumber"`
	DueDate               Date            `json:"dueDate"`
	FontSize              FontSize        `json:"fontSize,omitempty"`
	Translation           *TranslatedText `json:"translation,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// TranslatedText holds the translatable text fields of a product.
// Price and the vegan flag are shared with the original record.
type TranslatedText struct {
	Name                  string `json:"name"`
	Ingredients           string `json:"ingredients"`
	Allergens             string `json:"allergens"`
	ConsumptionGuidelines string `json:"consumptionGuidelines"`
	Description           string `json:"description"`
}

// HasTranslation reports whether the record carries a usable translation.
// A translation without a name is treated as missing.
func (p *ProductRecord) HasTranslation() bool {
	return p.Translation != nil && strings.TrimSpace(p.Translation.Name) != ""
}

// OriginalText returns the original-language text fields of the record.
func (p *ProductRecord) OriginalText() TranslatedText {
	return TranslatedText{
		Name:                  p.Name,
		Ingredients:           p.Ingredients,
		Allergens:             p.Allergens,
		ConsumptionGuidelines: p.ConsumptionGuidelines,
		Description:           p.Description,
	}
}

// DataQualityWarnings lists inconsistencies that are tolerated but worth reporting.
func (p *ProductRecord) DataQualityWarnings() []string {
	var warnings []string
	if p.IsOnlyForStorytel && !p.IsForStorytel {
		warnings = append(warnings, "product is marked only-for-Storytel but not for-Storytel")
	}
	if p.IsSnack && (p.IsForStorytel || p.IsOnlyForStorytel) {
		warnings = append(warnings, "snack product is also flagged for the Storytel channel")
	}
	return warnings
}

// Validate checks the fields the form requires before a record is persisted.
func (p *ProductRecord) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	if p.WeekNumber < 1 || p.WeekNumber > 53 {
		return fmt.Errorf("%w: week number must be between 1 and 53, got %d", ErrInvalidRequest, p.WeekNumber)
	}
	if p.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrInvalidRequest)
	}
	if !p.DeliveryDay.Valid() {
		return fmt.Errorf("%w: unknown delivery day %q", ErrInvalidRequest, p.DeliveryDay)
	}
	if !p.FontSize.Valid() {
		return fmt.Errorf("%w: unknown font size %q", ErrInvalidRequest, p.FontSize)
	}
	if p.Price != nil && *p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidRequest)
	}
	return nil
}

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFmt, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q", ErrInvalidRequest, s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateFmt)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	// accept full timestamps as well, the form sometimes sends them
	if len(s) > len(DateFmt) {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("%w: invalid date %q", ErrInvalidRequest, s)
		}
		*d = NewDate(t.Date())
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DeliveryDay is the weekday a Storytel dish is delivered. The zero value means absent.
type DeliveryDay string

const (
	Monday    DeliveryDay = "Monday"
	Tuesday   DeliveryDay = "Tuesday"
	Wednesday DeliveryDay = "Wednesday"
	Thursday  DeliveryDay = "Thursday"
	Friday    DeliveryDay = "Friday"
)

// DeliveryDays is the fixed bucket order of the day-grouped menu.
var DeliveryDays = []DeliveryDay{Monday, Tuesday, Wednesday, Thursday, Friday}

func (d DeliveryDay) Valid() bool {
	if d == "" {
		return true
	}
	for _, day := range DeliveryDays {
		if d == day {
			return true
		}
	}
	return false
}

// ParseDeliveryDay accepts weekday names in any letter case.
func ParseDeliveryDay(s string) (DeliveryDay, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, day := range DeliveryDays {
		if strings.EqualFold(s, string(day)) {
			return day, nil
		}
	}
	return "", fmt.Errorf("%w: unknown delivery day %q", ErrInvalidRequest, s)
}

// FontSize is the tri-state size selection applied to a whole rendered document.
type FontSize string

const (
	FontSizeNormal  FontSize = "normal"
	FontSizeSmall   FontSize = "small"
	FontSizeSmaller FontSize = "smaller"
)

func (f FontSize) Valid() bool {
	switch f {
	case "", FontSizeNormal, FontSizeSmall, FontSizeSmaller:
		return true
	}
	return false
}

// OrDefault maps the empty selection to normal.
func (f FontSize) OrDefault() FontSize {
	if f == "" {
		return FontSizeNormal
	}
	return f
}

// ParseFontSize parses a size selection; the empty string selects normal.
func ParseFontSize(s string) (FontSize, error) {
	f := FontSize(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("%w: unknown font size %q", ErrInvalidRequest, s)
	}
	return f.OrDefault(), nil
}
