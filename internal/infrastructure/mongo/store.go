// Package mongo persists product records in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const collectionName = "products"

// Config holds the connection settings.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Store implements domain.ProductRepository.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// New connects, pings and ensures the indexes of the products collection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetMaxPoolSize(20))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, collection: client.Database(cfg.Database).Collection(collectionName)}
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "week_number", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create products indexes: %w", err)
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Create(ctx context.Context, p *domain.ProductRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, toDocument(p)); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, p *domain.ProductRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	doc := toDocument(p)
	set := bson.M{
		"name":                   doc.Name,
		"description":            doc.Description,
		"ingredients":            doc.Ingredients,
		"allergens":              doc.Allergens,
		"consumption_guidelines": doc.ConsumptionGuidelines,
		"price":                  doc.Price,
		"is_vegan":               doc.IsVegan,
		"is_for_storytel":        doc.IsForStorytel,
		"is_only_for_storytel":   doc.IsOnlyForStorytel,
		"is_snack":               doc.IsSnack,
		"delivery_day":           doc.DeliveryDay,
		"week_number":            doc.WeekNumber,
		"due_date":               doc.DueDate,
		"font_size":              doc.FontSize,
		"translation":            doc.Translation,
		"updated_at":             doc.UpdatedAt,
	}
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.ProductRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc productDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return doc.toRecord()
}

func (s *Store) List(ctx context.Context, q domain.RecordQuery) ([]domain.ProductRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, selectorFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func (s *Store) SearchByName(ctx context.Context, query string, limit int) ([]domain.ProductRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(int64(limit))
	cursor, err := s.collection.Find(ctx, nameFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return decodeAll(ctx, cursor)
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]domain.ProductRecord, error) {
	defer cursor.Close(ctx)
	var products []domain.ProductRecord
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		p, err := doc.toRecord()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, cursor.Err()
}

// selectorFilter expresses domain.RecordQuery.Matches as a query document.
func selectorFilter(q domain.RecordQuery) bson.D {
	filter := bson.D{{Key: "week_number", Value: q.Week}}
	if q.VeganOnly {
		filter = append(filter, bson.E{Key: "is_vegan", Value: true})
	}
	switch q.Channel {
	case domain.ChannelStandard:
		filter = append(filter,
			bson.E{Key: "is_only_for_storytel", Value: bson.M{"$ne": true}},
			bson.E{Key: "is_snack", Value: bson.M{"$ne": true}})
	case domain.ChannelStorytel:
		filter = append(filter,
			bson.E{Key: "$or", Value: bson.A{
				bson.M{"is_for_storytel": true},
				bson.M{"is_only_for_storytel": true},
			}},
			bson.E{Key: "is_snack", Value: bson.M{"$ne": true}})
	case domain.ChannelSnack:
		filter = append(filter, bson.E{Key: "is_snack", Value: true})
	default:
		// matches nothing
		filter = append(filter, bson.E{Key: "_id", Value: bson.M{"$exists": false}})
	}
	return filter
}

func nameFilter(query string) bson.M {
	return bson.M{"name": bson.M{"$regex": regexp.QuoteMeta(query), "$options": "i"}}
}
