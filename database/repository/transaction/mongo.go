package transactionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finzo/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const transactionsCollection = "transactions"

type mongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo returns a repository backed by the transactions collection.
func NewMongoTransactionRepo(db *mongo.Database) TransactionRepository {
	return &mongoTransactionRepo{coll: db.Collection(transactionsCollection)}
}

// EnsureIndexes creates the lookup and listing indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(transactionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "accountId", Value: 1}, {Key: "date", Value: -1}}},
	})
	return err
}

type transactionDoc struct {
	ID         string    `bson:"id"`
	Payee      string    `bson:"payee"`
	Amount     int64     `bson:"amount"`
	CategoryID *string   `bson:"categoryId"`
	AccountID  string    `bson:"accountId"`
	Date       string    `bson:"date"`
	Notes      *string   `bson:"notes"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func (r *mongoTransactionRepo) Create(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	doc := transactionDoc{
		ID:         uuid.New().String(),
		Payee:      in.Payee,
		Amount:     in.Amount,
		CategoryID: in.CategoryID,
		AccountID:  in.AccountID,
		Date:       in.Date.String(),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}
	tx, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *mongoTransactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var doc transactionDoc
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction %s: %w", id, err)
	}
	tx, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *mongoTransactionRepo) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	query := bson.M{}
	if filter.AccountID != "" {
		query["accountId"] = filter.AccountID
	}
	if filter.CategoryID != "" {
		query["categoryId"] = filter.CategoryID
	}
	dateRange := bson.M{}
	if !filter.From.IsZero() {
		dateRange["$gte"] = filter.From.String()
	}
	if !filter.To.IsZero() {
		dateRange["$lte"] = filter.To.String()
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []transactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}

	out := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *mongoTransactionRepo) Update(ctx context.Context, id string, in models.TransactionInput) (*models.Transaction, error) {
	update := bson.M{"$set": bson.M{
		"payee":      in.Payee,
		"amount":     in.Amount,
		"categoryId": in.CategoryID,
		"accountId":  in.AccountID,
		"date":       in.Date.String(),
		"notes":      in.Notes,
		"updatedAt":  time.Now().UTC(),
	}}

	var doc transactionDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating transaction %s: %w", id, err)
	}
	tx, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *mongoTransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("deleting transaction %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoTransactionRepo) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("bulk deleting transactions: %w", err)
	}
	return int(res.DeletedCount), nil
}

func (d transactionDoc) toModel() (models.Transaction, error) {
	var date models.Date
	if d.Date != "" {
		parsed, err := models.ParseDate(d.Date)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("parsing date of transaction %s: %w", d.ID, err)
		}
		date = parsed
	}
	return models.Transaction{
		ID:         d.ID,
		Payee:      d.Payee,
		Amount:     d.Amount,
		CategoryID: d.CategoryID,
		AccountID:  d.AccountID,
		Date:       date,
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}
