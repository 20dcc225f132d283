package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of domain.ProductRepository
// keeping records in insertion order.
type MockProductRepository struct {
	records     []domain.ProductRecord
	createError error
	updateError error
	getError    error
	listError   error
	searchError error
	lastQuery   domain.RecordQuery
	searchQuery string
	searchLimit int
	updates     int
}

func NewMockProductRepository(records ...domain.ProductRecord) *MockProductRepository {
	return &MockProductRepository{records: records}
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.ProductRecord) error {
	if m.createError != nil {
		return m.createError
	}
	m.records = append(m.records, *p)
	return nil
}

func (m *MockProductRepository) Update(ctx context.Context, p *domain.ProductRecord) error {
	if m.updateError != nil {
		return m.updateError
	}
	for i := range m.records {
		if m.records[i].ID == p.ID {
			m.records[i] = *p
			m.updates++
			return nil
		}
	}
	return domain.ErrProductNotFound
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*domain.ProductRecord, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	for _, r := range m.records {
		if r.ID == id {
			out := r
			return &out, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (m *MockProductRepository) List(ctx context.Context, q domain.RecordQuery) ([]domain.ProductRecord, error) {
	m.lastQuery = q
	if m.listError != nil {
		return nil, m.listError
	}
	var out []domain.ProductRecord
	for i := range m.records {
		if q.Matches(&m.records[i]) {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *MockProductRepository) SearchByName(ctx context.Context, query string, limit int) ([]domain.ProductRecord, error) {
	m.searchQuery = query
	m.searchLimit = limit
	if m.searchError != nil {
		return nil, m.searchError
	}
	var out []domain.ProductRecord
	for _, r := range m.records {
		if strings.Contains(strings.ToLower(r.Name), strings.ToLower(query)) && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

var fixedNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newTestProductService(repo *MockProductRepository, translator domain.Translator) *ProductService {
	logger := zap.NewNop().Sugar()
	translations := NewTranslationService(NewMockCacheRepository(), translator, TranslationServiceConfig{}, logger)
	service := NewProductService(repo, translations, ProductServiceConfig{}, logger)
	service.now = func() time.Time { return fixedNow }
	service.newID = func() string { return "generated-id" }
	return service
}

func validProduct() *domain.ProductRecord {
	return &domain.ProductRecord{
		Name:        "Kycklinggryta",
		Ingredients: "kyckling, grädde",
		Allergens:   "mjölk",
		WeekNumber:  10,
		DueDate:     domain.NewDate(2026, time.March, 6),
	}
}

func TestProductService_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		repo := NewMockProductRepository()
		service := newTestProductService(repo, nil)

		got, err := service.Save(ctx, validProduct())

		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.ID != "generated-id" {
			t.Errorf("Expected generated id, got %q", got.ID)
		}
		if !got.CreatedAt.Equal(fixedNow) || !got.UpdatedAt.Equal(fixedNow) {
			t.Errorf("Expected timestamps %v, got %v / %v", fixedNow, got.CreatedAt, got.UpdatedAt)
		}
		if got.FontSize != domain.FontSizeNormal {
			t.Errorf("Expected default font size normal, got %q", got.FontSize)
		}
		if len(repo.records) != 1 {
			t.Errorf("Expected 1 stored record, got %d", len(repo.records))
		}
	})

	t.Run("update keeps creation time", func(t *testing.T) {
		created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		existing := *validProduct()
		existing.ID = "p1"
		existing.CreatedAt = created
		repo := NewMockProductRepository(existing)
		service := newTestProductService(repo, nil)

		update := validProduct()
		update.ID = "p1"
		update.Name = "Kycklinggryta med ris"
		got, err := service.Save(ctx, update)

		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("Expected CreatedAt %v, got %v", created, got.CreatedAt)
		}
		if !got.UpdatedAt.Equal(fixedNow) {
			t.Errorf("Expected UpdatedAt %v, got %v", fixedNow, got.UpdatedAt)
		}
		if repo.records[0].Name != "Kycklinggryta med ris" {
			t.Errorf("Expected stored name to change, got %q", repo.records[0].Name)
		}
	})

	t.Run("update of missing product", func(t *testing.T) {
		service := newTestProductService(NewMockProductRepository(), nil)
		p := validProduct()
		p.ID = "missing"

		_, err := service.Save(ctx, p)

		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("Expected ErrProductNotFound, got %v", err)
		}
	})

	t.Run("invalid product is not stored", func(t *testing.T) {
		repo := NewMockProductRepository()
		service := newTestProductService(repo, nil)
		p := validProduct()
		p.WeekNumber = 0

		_, err := service.Save(ctx, p)

		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Expected ErrInvalidRequest, got %v", err)
		}
		if len(repo.records) != 0 {
			t.Errorf("Expected nothing stored, got %d records", len(repo.records))
		}
	})

	t.Run("inconsistent storytel flags are saved", func(t *testing.T) {
		repo := NewMockProductRepository()
		service := newTestProductService(repo, nil)
		p := validProduct()
		p.IsOnlyForStorytel = true

		if _, err := service.Save(ctx, p); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !repo.records[0].IsOnlyForStorytel || repo.records[0].IsForStorytel {
			t.Error("Expected flags to be stored as given")
		}
	})

	t.Run("nil product", func(t *testing.T) {
		service := newTestProductService(NewMockProductRepository(), nil)
		if _, err := service.Save(ctx, nil); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Expected ErrInvalidRequest, got %v", err)
		}
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	snack := *validProduct()
	snack.ID, snack.Name, snack.IsSnack = "s", "Chokladboll", true
	meal := *validProduct()
	meal.ID = "m"

	t.Run("applies selector", func(t *testing.T) {
		service := newTestProductService(NewMockProductRepository(meal, snack), nil)

		got, err := service.List(ctx, domain.RecordQuery{Week: 10, Channel: domain.ChannelSnack})

		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "s" {
			t.Errorf("Expected only the snack, got %+v", got)
		}
	})

	t.Run("invalid query", func(t *testing.T) {
		repo := NewMockProductRepository(meal)
		service := newTestProductService(repo, nil)

		_, err := service.List(ctx, domain.RecordQuery{Week: 54, Channel: domain.ChannelStandard})

		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Expected ErrInvalidRequest, got %v", err)
		}
	})

	t.Run("store failure", func(t *testing.T) {
		repo := NewMockProductRepository()
		repo.listError = errors.New("connection refused")
		service := newTestProductService(repo, nil)

		_, err := service.List(ctx, domain.RecordQuery{Week: 10, Channel: domain.ChannelStandard})

		if !errors.Is(err, domain.ErrRecordFetch) {
			t.Errorf("Expected ErrRecordFetch, got %v", err)
		}
	})
}

func TestProductService_Suggest(t *testing.T) {
	ctx := context.Background()
	names := []string{"Vegansk gryta", "Gryta", "Grytbas", "Kycklinggryta", "Grönsaksgryta", "Linsgryta", "Gryt-soppa"}
	var records []domain.ProductRecord
	for _, n := range names {
		records = append(records, domain.ProductRecord{ID: n, Name: n})
	}

	t.Run("short query returns empty without search", func(t *testing.T) {
		repo := NewMockProductRepository(records...)
		service := newTestProductService(repo, nil)

		got, err := service.Suggest(ctx, " g ")

		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Expected empty non-nil list, got %v", got)
		}
		if repo.searchQuery != "" {
			t.Errorf("Expected no search, got query %q", repo.searchQuery)
		}
	})

	t.Run("limits and ranks", func(t *testing.T) {
		repo := NewMockProductRepository(records...)
		service := newTestProductService(repo, nil)

		got, err := service.Suggest(ctx, "gryt")

		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(got) != 5 {
			t.Fatalf("Expected 5 suggestions, got %d", len(got))
		}
		// prefix matches first, in store order
		if got[0].Name != "Gryta" || got[1].Name != "Grytbas" || got[2].Name != "Gryt-soppa" {
			t.Errorf("Unexpected ranking: %v, %v, %v", got[0].Name, got[1].Name, got[2].Name)
		}
	})

	t.Run("query is cleaned", func(t *testing.T) {
		repo := NewMockProductRepository(records...)
		service := newTestProductService(repo, nil)

		if _, err := service.Suggest(ctx, `"lins%"`); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if repo.searchQuery != "lins" {
			t.Errorf("Expected cleaned query lins, got %q", repo.searchQuery)
		}
	})
}

func TestProductService_Translate(t *testing.T) {
	ctx := context.Background()

	stored := func() domain.ProductRecord {
		p := *validProduct()
		p.ID = "p1"
		p.Translation = &domain.TranslatedText{Name: "Old translation"}
		return p
	}

	t.Run("persists translation", func(t *testing.T) {
		repo := NewMockProductRepository(stored())
		translator := &MockTranslator{result: stewTranslation}
		service := newTestProductService(repo, translator)

		got, err := service.Translate(ctx, "p1")

		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.Translation.Name != "Chicken stew" {
			t.Errorf("Expected translated name, got %q", got.Translation.Name)
		}
		if repo.records[0].Translation.Name != "Chicken stew" {
			t.Error("Expected translation to be persisted")
		}
		if translator.input.Name != "Kycklinggryta" {
			t.Errorf("Expected original name to be sent, got %q", translator.input.Name)
		}
	})

	t.Run("failure keeps stored translation", func(t *testing.T) {
		repo := NewMockProductRepository(stored())
		service := newTestProductService(repo, &MockTranslator{err: domain.ErrTranslationFailed})

		_, err := service.Translate(ctx, "p1")

		if !errors.Is(err, domain.ErrTranslationFailed) {
			t.Errorf("Expected ErrTranslationFailed, got %v", err)
		}
		if repo.updates != 0 {
			t.Errorf("Expected no update, got %d", repo.updates)
		}
		if repo.records[0].Translation.Name != "Old translation" {
			t.Errorf("Expected stored translation untouched, got %q", repo.records[0].Translation.Name)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		service := newTestProductService(NewMockProductRepository(stored()), nil)

		_, err := service.Translate(ctx, "p1")

		if !errors.Is(err, domain.ErrTranslationNotConfigured) {
			t.Errorf("Expected ErrTranslationNotConfigured, got %v", err)
		}
	})

	t.Run("unknown product", func(t *testing.T) {
		service := newTestProductService(NewMockProductRepository(), &MockTranslator{result: stewTranslation})

		_, err := service.Translate(ctx, "nope")

		if !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("Expected ErrProductNotFound, got %v", err)
		}
	})
}
