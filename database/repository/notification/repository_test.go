package notificationRepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"finzo/database"
	"finzo/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// backends returns every repository implementation available in this environment.
func backends(t *testing.T) map[string]func(t *testing.T) NotificationRepository {
	t.Helper()
	return map[string]func(t *testing.T) NotificationRepository{
		"memory": func(t *testing.T) NotificationRepository {
			return NewMemoryNotificationRepo()
		},
		"sqlite": func(t *testing.T) NotificationRepository {
			db, err := database.OpenSQLite(":memory:")
			if err != nil {
				t.Fatalf("opening sqlite: %v", err)
			}
			t.Cleanup(func() { db.Close() })
			return NewSQLiteNotificationRepo(db)
		},
		"mongo": newMongoTestRepo,
	}
}

// newMongoTestRepo is opt-in: set MONGO_TEST_URL to run against a live server.
func newMongoTestRepo(t *testing.T) NotificationRepository {
	url := os.Getenv("MONGO_TEST_URL")
	if url == "" {
		t.Skip("mongo tests are disabled; set MONGO_TEST_URL to enable")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		t.Fatalf("connecting to mongo: %v", err)
	}
	db := client.Database(fmt.Sprintf("finzo_test_%d", time.Now().UnixNano()))
	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("creating indexes: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return NewMongoNotificationRepo(db)
}

func forEachBackend(t *testing.T, fn func(t *testing.T, repo NotificationRepository)) {
	for name, newRepo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			fn(t, newRepo(t))
		})
	}
}

func deletedNotification(txID string) models.Notification {
	return models.Notification{
		Type:          models.NotificationInfo,
		Title:         "Transaction Deleted",
		Message:       "A transaction was deleted from your account.",
		TransactionID: txID,
		Change:        models.ChangeDeleted,
		BeforeState: &models.TransactionSnapshot{
			Payee:      "Coffee",
			Amount:     -450,
			CategoryID: models.StringPtr("c2"),
			AccountID:  "a1",
			Date:       models.NewDate(2024, 1, 5),
		},
	}
}

func TestAppendAssignsStoreOwnedFields(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo NotificationRepository) {
		ctx := context.Background()
		in := deletedNotification("tx1")
		in.Read = true

		got, err := repo.Append(ctx, in)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		if got.ID == "" {
			t.Fatalf("expected id to be assigned")
		}
		if got.Timestamp.IsZero() {
			t.Fatalf("expected timestamp to be assigned")
		}
		if got.Read {
			t.Fatalf("read must start false")
		}

		stored, err := repo.GetByID(ctx, got.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if stored.Change != models.ChangeDeleted || stored.AfterState != nil {
			t.Fatalf("unexpected shape: %+v", stored)
		}
		if !stored.BeforeState.Equal(*in.BeforeState) {
			t.Fatalf("before state mismatch: %+v vs %+v", stored.BeforeState, in.BeforeState)
		}
	})
}

func TestListIsNewestFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo NotificationRepository) {
		ctx := context.Background()
		var ids []string
		for i := 0; i < 3; i++ {
			n, err := repo.Append(ctx, models.Notification{
				Type:  models.NotificationInfo,
				Title: fmt.Sprintf("n%d", i),
			})
			if err != nil {
				t.Fatalf("append %d: %v", i, err)
			}
			ids = append(ids, n.ID)
		}

		list, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("expected 3 got %d", len(list))
		}
		for i, n := range list {
			if want := ids[len(ids)-1-i]; n.ID != want {
				t.Fatalf("position %d: expected %s got %s", i, want, n.ID)
			}
		}
	})
}

func TestSetReadMissingIsNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo NotificationRepository) {
		ctx := context.Background()
		if _, err := repo.Append(ctx, deletedNotification("tx1")); err != nil {
			t.Fatalf("append: %v", err)
		}

		if _, err := repo.SetRead(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		list, _ := repo.List(ctx)
		if len(list) != 1 {
			t.Fatalf("log length changed: %d", len(list))
		}
	})
}

func TestSetReadAndMarkAllRead(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo NotificationRepository) {
		ctx := context.Background()
		a, _ := repo.Append(ctx, models.Notification{Type: models.NotificationInfo, Title: "a"})
		_, _ = repo.Append(ctx, models.Notification{Type: models.NotificationInfo, Title: "b"})
		_, _ = repo.Append(ctx, models.Notification{Type: models.NotificationInfo, Title: "c"})

		got, err := repo.SetRead(ctx, a.ID, true)
		if err != nil {
			t.Fatalf("set read: %v", err)
		}
		if !got.Read {
			t.Fatalf("expected read=true")
		}

		n, err := repo.MarkAllRead(ctx)
		if err != nil {
			t.Fatalf("mark all: %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 updated got %d", n)
		}

		got, err = repo.SetRead(ctx, a.ID, false)
		if err != nil {
			t.Fatalf("set unread: %v", err)
		}
		if got.Read {
			t.Fatalf("expected read=false")
		}
	})
}

func TestDeleteAndDeleteAll(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo NotificationRepository) {
		ctx := context.Background()
		a, _ := repo.Append(ctx, models.Notification{Type: models.NotificationInfo, Title: "a"})
		_, _ = repo.Append(ctx, models.Notification{Type: models.NotificationInfo, Title: "b"})

		if err := repo.Delete(ctx, a.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := repo.Delete(ctx, a.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
		list, _ := repo.List(ctx)
		if len(list) != 1 || list[0].Title != "b" {
			t.Fatalf("unexpected log after delete: %+v", list)
		}

		if err := repo.DeleteAll(ctx); err != nil {
			t.Fatalf("delete all: %v", err)
		}
		list, _ = repo.List(ctx)
		if len(list) != 0 {
			t.Fatalf("expected empty log, got %d", len(list))
		}
	})
}

func TestMemoryListReturnsCopies(t *testing.T) {
	repo := NewMemoryNotificationRepo()
	ctx := context.Background()
	_, _ = repo.Append(ctx, deletedNotification("tx1"))

	list, _ := repo.List(ctx)
	list[0].BeforeState.Payee = "mutated"
	*list[0].BeforeState.CategoryID = "mutated"

	again, _ := repo.List(ctx)
	if again[0].BeforeState.Payee != "Coffee" || *again[0].BeforeState.CategoryID != "c2" {
		t.Fatalf("stored snapshot was mutated through a listing")
	}
}

func TestMemoryConcurrentAppendAndList(t *testing.T) {
	repo := NewMemoryNotificationRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.Append(ctx, deletedNotification("tx"))
		}()
		go func() {
			defer wg.Done()
			list, _ := repo.List(ctx)
			for _, n := range list {
				if n.ID == "" || n.BeforeState == nil {
					t.Errorf("observed torn record: %+v", n)
				}
			}
		}()
	}
	wg.Wait()

	list, _ := repo.List(ctx)
	if len(list) != 50 {
		t.Fatalf("expected 50 got %d", len(list))
	}
}
