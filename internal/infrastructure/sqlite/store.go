// Package sqlite persists product records in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sizzle/labelpress/internal/domain"
)

const columns = `id, name, description, ingredients, allergens, consumption_guidelines, price,
	is_vegan, is_for_storytel, is_only_for_storytel, is_snack, delivery_day, week_number,
	due_date, font_size, translation, created_at, updated_at`

// Store implements domain.ProductRepository.
type Store struct {
	sqlDB        *sql.DB
	insert       *sql.Stmt
	update       *sql.Stmt
	getByID      *sql.Stmt
	listSelected *sql.Stmt
	searchByName *sql.Stmt
}

// Open opens or creates the database at path. The parent directory is created if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", path+"?_busy_timeout=10000&_journal=WAL&_sync=NORMAL")
	if err != nil {
		return nil, err
	}

	_, err = sqlDB.Exec(`
		create table if not exists product (
			id                     text    not null primary key,
			name                   text    not null,
			description            text    not null,
			ingredients            text    not null,
			allergens              text    not null,
			consumption_guidelines text    not null,
			price                  real,             -- null when absent
			is_vegan               boolean not null,
			is_for_storytel        boolean not null,
			is_only_for_storytel   boolean not null,
			is_snack               boolean not null,
			delivery_day           text    not null, -- weekday name or empty
			week_number            integer not null,
			due_date               text    not null, -- yyyy-mm-dd
			font_size              text    not null,
			translation            text,             -- json, null when never translated
			created_at             integer not null, -- unix microseconds
			updated_at             integer not null
		);
		create index if not exists product_week on product (week_number);
	`)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	var s = &Store{sqlDB: sqlDB}
	var stmts = []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.insert, "insert into product (" + columns + ") values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"},
		{&s.update, `update product set name = ?, description = ?, ingredients = ?, allergens = ?,
			consumption_guidelines = ?, price = ?, is_vegan = ?, is_for_storytel = ?, is_only_for_storytel = ?,
			is_snack = ?, delivery_day = ?, week_number = ?, due_date = ?, font_size = ?, translation = ?,
			updated_at = ? where id = ?`},
		{&s.getByID, "select " + columns + " from product where id = ?"},
		// the channel rules mirror domain.RecordQuery.Matches
		{&s.listSelected, "select " + columns + ` from product
			where week_number = ?1
			and (?2 = 0 or is_vegan = 1)
			and case ?3
				when 'standard' then is_only_for_storytel = 0 and is_snack = 0
				when 'storytel' then (is_for_storytel = 1 or is_only_for_storytel = 1) and is_snack = 0
				when 'snack' then is_snack = 1
				else 0
			end
			order by created_at, rowid`},
		{&s.searchByName, "select " + columns + " from product where instr(lower(name), lower(?)) > 0 order by name limit ?"},
	}
	for _, stmt := range stmts {
		*stmt.dst, err = sqlDB.Prepare(stmt.query)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("prepare statement: %w", err)
		}
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.sqlDB.Close()
}

// Create inserts a new product.
func (s *Store) Create(ctx context.Context, p *domain.ProductRecord) error {
	translation, err := encodeTranslation(p.Translation)
	if err != nil {
		return err
	}
	_, err = s.insert.ExecContext(ctx,
		p.ID, p.Name, p.Description, p.Ingredients, p.Allergens, p.ConsumptionGuidelines, p.Price,
		p.IsVegan, p.IsForStorytel, p.IsOnlyForStorytel, p.IsSnack, string(p.DeliveryDay), p.WeekNumber,
		p.DueDate.String(), string(p.FontSize), translation, p.CreatedAt.UnixMicro(), p.UpdatedAt.UnixMicro())
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces all fields of an existing product except its creation time.
func (s *Store) Update(ctx context.Context, p *domain.ProductRecord) error {
	translation, err := encodeTranslation(p.Translation)
	if err != nil {
		return err
	}
	result, err := s.update.ExecContext(ctx,
		p.Name, p.Description, p.Ingredients, p.Allergens, p.ConsumptionGuidelines, p.Price,
		p.IsVegan, p.IsForStorytel, p.IsOnlyForStorytel, p.IsSnack, string(p.DeliveryDay), p.WeekNumber,
		p.DueDate.String(), string(p.FontSize), translation, p.UpdatedAt.UnixMicro(), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GetByID returns domain.ErrProductNotFound when no product has the id.
func (s *Store) GetByID(ctx context.Context, id string) (*domain.ProductRecord, error) {
	p, err := scanProduct(s.getByID.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// List returns the records selected by q in creation order.
func (s *Store) List(ctx context.Context, q domain.RecordQuery) ([]domain.ProductRecord, error) {
	rows, err := s.listSelected.QueryContext(ctx, q.Week, q.VeganOnly, string(q.Channel))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return collect(rows)
}

// SearchByName returns up to limit products whose name contains query, ignoring case.
func (s *Store) SearchByName(ctx context.Context, query string, limit int) ([]domain.ProductRecord, error) {
	rows, err := s.searchByName.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]domain.ProductRecord, error) {
	defer rows.Close()
	var products []domain.ProductRecord
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.ProductRecord, error) {
	var (
		p           domain.ProductRecord
		price       sql.NullFloat64
		deliveryDay string
		dueDate     string
		fontSize    string
		translation sql.NullString
		createdAt   int64
		updatedAt   int64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Ingredients, &p.Allergens, &p.ConsumptionGuidelines, &price,
		&p.IsVegan, &p.IsForStorytel, &p.IsOnlyForStorytel, &p.IsSnack, &deliveryDay, &p.WeekNumber,
		&dueDate, &fontSize, &translation, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		p.Price = &price.Float64
	}
	p.DeliveryDay = domain.DeliveryDay(deliveryDay)
	p.FontSize = domain.FontSize(fontSize)
	if dueDate != "" {
		if p.DueDate, err = domain.ParseDate(dueDate); err != nil {
			return nil, err
		}
	}
	if translation.Valid {
		p.Translation = &domain.TranslatedText{}
		if err := json.Unmarshal([]byte(translation.String), p.Translation); err != nil {
			return nil, fmt.Errorf("decode translation of %s: %w", p.ID, err)
		}
	}
	p.CreatedAt = time.UnixMicro(createdAt).UTC()
	p.UpdatedAt = time.UnixMicro(updatedAt).UTC()
	return &p, nil
}

func encodeTranslation(t *domain.TranslatedText) (sql.NullString, error) {
	if t == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(t)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
