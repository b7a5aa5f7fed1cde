package notificationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finzo/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	notificationsCollection = "notifications"
	countersCollection      = "counters"
	notificationsCounterID  = "notifications"
)

type mongoNotificationRepo struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

// NewMongoNotificationRepo returns a repository backed by the notifications collection.
func NewMongoNotificationRepo(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepo{
		coll:     db.Collection(notificationsCollection),
		counters: db.Collection(countersCollection),
	}
}

// EnsureIndexes creates the lookup and ordering indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(notificationsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "seq", Value: -1}}},
		{Keys: bson.D{{Key: "read", Value: 1}}},
	})
	return err
}

type snapshotDoc struct {
	Payee      string  `bson:"payee"`
	Amount     int64   `bson:"amount"`
	CategoryID *string `bson:"categoryId"`
	AccountID  string  `bson:"accountId"`
	Date       string  `bson:"date"`
	Notes      *string `bson:"notes"`
}

type notificationDoc struct {
	ID            string       `bson:"id"`
	Seq           int64        `bson:"seq"`
	Type          string       `bson:"type"`
	Title         string       `bson:"title"`
	Message       string       `bson:"message"`
	Timestamp     time.Time    `bson:"timestamp"`
	Read          bool         `bson:"read"`
	TransactionID string       `bson:"transactionId,omitempty"`
	Change        string       `bson:"change,omitempty"`
	BeforeState   *snapshotDoc `bson:"beforeState,omitempty"`
	AfterState    *snapshotDoc `bson:"afterState,omitempty"`
}

func (r *mongoNotificationRepo) Append(ctx context.Context, n models.Notification) (*models.Notification, error) {
	n = prepare(n)
	// BSON dates keep millisecond precision.
	n.Timestamp = n.Timestamp.Truncate(time.Millisecond)

	seq, err := r.nextSeq(ctx)
	if err != nil {
		return nil, err
	}

	doc := notificationDoc{
		ID:            n.ID,
		Seq:           seq,
		Type:          string(n.Type),
		Title:         n.Title,
		Message:       n.Message,
		Timestamp:     n.Timestamp,
		Read:          false,
		TransactionID: n.TransactionID,
		Change:        string(n.Change),
		BeforeState:   toSnapshotDoc(n.BeforeState),
		AfterState:    toSnapshotDoc(n.AfterState),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}
	return &n, nil
}

// nextSeq atomically increments the notification counter.
func (r *mongoNotificationRepo) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": notificationsCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("allocating notification sequence: %w", err)
	}
	return counter.Seq, nil
}

func (r *mongoNotificationRepo) List(ctx context.Context) ([]models.Notification, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("querying notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []notificationDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding notifications: %w", err)
	}

	out := make([]models.Notification, 0, len(docs))
	for _, d := range docs {
		n, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *mongoNotificationRepo) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var doc notificationDoc
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting notification %s: %w", id, err)
	}
	n, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *mongoNotificationRepo) SetRead(ctx context.Context, id string, read bool) (*models.Notification, error) {
	var doc notificationDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"read": read}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("marking notification %s read=%t: %w", id, read, err)
	}
	n, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *mongoNotificationRepo) MarkAllRead(ctx context.Context) (int, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, fmt.Errorf("marking all notifications read: %w", err)
	}
	return int(res.ModifiedCount), nil
}

func (r *mongoNotificationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("deleting notification %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoNotificationRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}

func toSnapshotDoc(s *models.TransactionSnapshot) *snapshotDoc {
	if s == nil {
		return nil
	}
	return &snapshotDoc{
		Payee:      s.Payee,
		Amount:     s.Amount,
		CategoryID: s.CategoryID,
		AccountID:  s.AccountID,
		Date:       s.Date.String(),
		Notes:      s.Notes,
	}
}

func (d *snapshotDoc) toModel() (*models.TransactionSnapshot, error) {
	if d == nil {
		return nil, nil
	}
	s := &models.TransactionSnapshot{
		Payee:      d.Payee,
		Amount:     d.Amount,
		CategoryID: d.CategoryID,
		AccountID:  d.AccountID,
		Notes:      d.Notes,
	}
	if d.Date != "" {
		date, err := models.ParseDate(d.Date)
		if err != nil {
			return nil, err
		}
		s.Date = date
	}
	return s, nil
}

func (d notificationDoc) toModel() (models.Notification, error) {
	before, err := d.BeforeState.toModel()
	if err != nil {
		return models.Notification{}, fmt.Errorf("decoding beforeState of notification %s: %w", d.ID, err)
	}
	after, err := d.AfterState.toModel()
	if err != nil {
		return models.Notification{}, fmt.Errorf("decoding afterState of notification %s: %w", d.ID, err)
	}
	return models.Notification{
		ID:            d.ID,
		Type:          models.NotificationType(d.Type),
		Title:         d.Title,
		Message:       d.Message,
		Timestamp:     d.Timestamp,
		Read:          d.Read,
		TransactionID: d.TransactionID,
		Change:        models.ChangeKind(d.Change),
		BeforeState:   before,
		AfterState:    after,
	}, nil
}
