package translate

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sizzle/labelpress/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const systemInstruction = "You are a professional translator. Always respond with valid JSON only."

// LanguageName returns the English name of a language tag, e.g. "Swedish".
func LanguageName(tag language.Tag) string {
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

func buildPrompt(source, target language.Tag, text domain.TranslatedText) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following food product details from %s to %s. Keep the translations natural and accurate:\n\n",
		LanguageName(source), LanguageName(target))
	fmt.Fprintf(&b, "Name: %s\n", text.Name)
	fmt.Fprintf(&b, "Ingredients: %s\n", text.Ingredients)
	fmt.Fprintf(&b, "Allergens: %s\n", text.Allergens)
	fmt.Fprintf(&b, "Consumption Guidelines: %s\n", text.ConsumptionGuidelines)
	fmt.Fprintf(&b, "Description: %s\n\n", text.Description)
	b.WriteString("IMPORTANT: For ingredients and allergens, provide them as comma-separated values without array notation, brackets, or quotes.\n\n")
	b.WriteString("Return a JSON object with these exact keys: name, ingredients, allergens, consumptionGuidelines, description\n")
	return b.String()
}

// listNoise are characters models sometimes wrap list fields in.
var listNoise = strings.NewReplacer("[", "", "]", "", `"`, "")

// listText accepts a JSON string or an array of strings.
type listText string

func (l *listText) UnmarshalJSON(b []byte) error {
	var items []string
	if err := json.Unmarshal(b, &items); err == nil {
		*l = listText(strings.Join(items, ", "))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*l = listText(s)
	return nil
}

type modelResponse struct {
	Name                  string   `json:"name"`
	Ingredients           listText `json:"ingredients"`
	Allergens             listText `json:"allergens"`
	ConsumptionGuidelines string   `json:"consumptionGuidelines"`
	Description           string   `json:"description"`
}

// parseResponse decodes the model output and cleans list fields.
func parseResponse(raw string) (*domain.TranslatedText, error) {
	raw = strings.TrimSpace(raw)
	// some models wrap JSON in a markdown fence despite the MIME type
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var resp modelResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &resp); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	out := &domain.TranslatedText{
		Name:                  strings.TrimSpace(resp.Name),
		Ingredients:           strings.TrimSpace(listNoise.Replace(string(resp.Ingredients))),
		Allergens:             strings.TrimSpace(listNoise.Replace(string(resp.Allergens))),
		ConsumptionGuidelines: strings.TrimSpace(resp.ConsumptionGuidelines),
		Description:           strings.TrimSpace(resp.Description),
	}
	if out.Name == "" {
		return nil, fmt.Errorf("model response has no name")
	}
	return out, nil
}
