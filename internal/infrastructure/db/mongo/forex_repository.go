package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kursownik/api/internal/core/domain"
)

const (
	ratesCollection    = "currency_rates"
	paymentsCollection = "payments"
)

type mongoRate struct {
	Currency  string    `bson:"currency_name"`
	Rate      float64   `bson:"rate"`
	FetchedAt time.Time `bson:"fetched_at"`
}

func (m *mongoRate) toDomain() *domain.Rate {
	return &domain.Rate{Currency: m.Currency, Rate: m.Rate, FetchedAt: m.FetchedAt.UTC()}
}

type RateRepository struct {
	coll *mongo.Collection
}

func NewRateRepository(db *mongo.Database) *RateRepository {
	return &RateRepository{coll: db.Collection(ratesCollection)}
}

var newestFirst = bson.D{{Key: "fetched_at", Value: -1}}

func (r *RateRepository) Insert(ctx context.Context, rate *domain.Rate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, mongoRate{Currency: rate.Currency, Rate: rate.Rate, FetchedAt: rate.FetchedAt})
	if err != nil {
		return fmt.Errorf("insert rate: %w", err)
	}
	return nil
}

func (r *RateRepository) Latest(ctx context.Context, currency string) (*domain.Rate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoRate
	err := r.coll.FindOne(ctx, bson.M{"currency_name": currency}, options.FindOne().SetSort(newestFirst)).Decode(&m)
	if err != nil {
		return nil, findErr(err, domain.ErrRateUnavailable, "rate")
	}
	return m.toDomain(), nil
}

func (r *RateRepository) History(ctx context.Context, currencies []string, limit int) ([]*domain.Rate, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{"currency_name": bson.M{"$in": currencies}},
		options.Find().SetSort(newestFirst).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, fmt.Errorf("rate history: %w", err)
	}
	var docs []mongoRate
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	out := make([]*domain.Rate, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *RateRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"fetched_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("delete rates: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes supports latest-per-currency lookups and pruning.
func (r *RateRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "currency_name", Value: 1}, {Key: "fetched_at", Value: -1}}},
		{Keys: bson.D{{Key: "fetched_at", Value: 1}}},
	})
	return err
}

type mongoPayment struct {
	ID               string    `bson:"_id"`
	UserID           string    `bson:"user_id"`
	CourseID         string    `bson:"course_id"`
	Title            string    `bson:"title"`
	Description      string    `bson:"description"`
	OriginalAmount   float64   `bson:"original_amount"`
	OriginalCurrency string    `bson:"original_currency"`
	PLNAmount        float64   `bson:"pln_amount"`
	ExchangeRate     *float64  `bson:"exchange_rate,omitempty"`
	Status           string    `bson:"status"`
	ProcessedAt      time.Time `bson:"processed_at"`
}

type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentsCollection)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, mongoPayment{
		ID:               p.ID,
		UserID:           p.UserID,
		CourseID:         p.CourseID,
		Title:            p.Title,
		Description:      p.Description,
		OriginalAmount:   p.OriginalAmount,
		OriginalCurrency: p.OriginalCurrency,
		PLNAmount:        p.PLNAmount,
		ExchangeRate:     p.ExchangeRate,
		Status:           p.Status,
		ProcessedAt:      p.ProcessedAt,
	})
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}
