package mongo

import (
	"time"

	"github.com/sizzle/labelpress/internal/domain"
)

type translationDocument struct {
	Name                  string `bson:"name"`
	Ingredients           string `bson:"ingredients"`
	Allergens             string `bson:"allergens"`
	ConsumptionGuidelines string `bson:"consumption_guidelines"`
	Description           string `bson:"description"`
}

// productDocument is the stored shape of a product.
type productDocument struct {
	ID                    string               `bson:"_id"`
	Name                  string               `bson:"name"`
	Description           string               `bson:"description"`
	Ingredients           string               `bson:"ingredients"`
	Allergens             string               `bson:"allergens"`
	ConsumptionGuidelines string               `bson:"consumption_guidelines"`
	Price                 *float64             `bson:"price"`
	IsVegan               bool                 `bson:"is_vegan"`
	IsForStorytel         bool                 `bson:"is_for_storytel"`
	IsOnlyForStorytel     bool                 `bson:"is_only_for_storytel"`
	IsSnack               bool                 `bson:"is_snack"`
	DeliveryDay           string               `bson:"delivery_day"`
	WeekNumber            int                  `bson:"week_number"`
	DueDate               string               `bson:"due_date"`
	FontSize              string               `bson:"font_size"`
	Translation           *translationDocument `bson:"translation"`
	CreatedAt             time.Time            `bson:"created_at"`
	UpdatedAt             time.Time            `bson:"updated_at"`
}

func toDocument(p *domain.ProductRecord) productDocument {
	doc := productDocument{
		ID:                    p.ID,
		Name:                  p.Name,
		Description:           p.Description,
		Ingredients:           p.Ingredients,
		Allergens:             p.Allergens,
		ConsumptionGuidelines: p.ConsumptionGuidelines,
		Price:                 p.Price,
		IsVegan:               p.IsVegan,
		IsForStorytel:         p.IsForStorytel,
		IsOnlyForStorytel:     p.IsOnlyForStorytel,
		IsSnack:               p.IsSnack,
		DeliveryDay:           string(p.DeliveryDay),
		WeekNumber:            p.WeekNumber,
		DueDate:               p.DueDate.String(),
		FontSize:              string(p.FontSize),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
	if t := p.Translation; t != nil {
		doc.Translation = &translationDocument{
			Name:                  t.Name,
			Ingredients:           t.Ingredients,
			Allergens:             t.Allergens,
			ConsumptionGuidelines: t.ConsumptionGuidelines,
			Description:           t.Description,
		}
	}
	return doc
}

func (d productDocument) toRecord() (*domain.ProductRecord, error) {
	p := &domain.ProductRecord{
		ID:                    d.ID,
		Name:                  d.Name,
		Description:           d.Description,
		Ingredients:           d.Ingredients,
		Allergens:             d.Allergens,
		ConsumptionGuidelines: d.ConsumptionGuidelines,
		Price:                 d.Price,
		IsVegan:               d.IsVegan,
		IsForStorytel:         d.IsForStorytel,
		IsOnlyForStorytel:     d.IsOnlyForStorytel,
		IsSnack:               d.IsSnack,
		DeliveryDay:           domain.DeliveryDay(d.DeliveryDay),
		WeekNumber:            d.WeekNumber,
		FontSize:              domain.FontSize(d.FontSize),
		CreatedAt:             d.CreatedAt.UTC(),
		UpdatedAt:             d.UpdatedAt.UTC(),
	}
	if d.DueDate != "" {
		date, err := domain.ParseDate(d.DueDate)
		if err != nil {
			return nil, err
		}
		p.DueDate = date
	}
	if t := d.Translation; t != nil {
		p.Translation = &domain.TranslatedText{
			Name:                  t.Name,
			Ingredients:           t.Ingredients,
			Allergens:             t.Allergens,
			ConsumptionGuidelines: t.ConsumptionGuidelines,
			Description:           t.Description,
		}
	}
	return p, nil
}
