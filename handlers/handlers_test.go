package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	notificationRepo "finzo/database/repository/notification"
	transactionRepo "finzo/database/repository/transaction"
	"finzo/models"
	"finzo/services/audit"
	"finzo/services/notification"
	"finzo/services/transaction"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ns, err := notification.NewDefaultNotificationService(notificationRepo.NewMemoryNotificationRepo(), nil, zap.NewNop())
	if err != nil {
		t.Fatalf("notification service: %v", err)
	}
	ts, err := transaction.NewDefaultTransactionService(transactionRepo.NewMemoryTransactionRepo(), notification.NewInlineEmitter(ns, zap.NewNop()), zap.NewNop())
	if err != nil {
		t.Fatalf("transaction service: %v", err)
	}
	nh := NewNotificationHandler(ns, audit.NewResolver(ns, ts, zap.NewNop()))
	th := NewTransactionHandler(ts)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("logger", zap.NewNop())
		c.Next()
	})
	api := r.Group("/api")
	api.GET("/notifications", nh.ListNotificationsHandler)
	api.POST("/notifications", nh.CreateNotificationHandler)
	api.PATCH("/notifications", nh.SetReadHandler)
	api.DELETE("/notifications", nh.DeleteNotificationsHandler)
	api.POST("/notifications/read-all", nh.MarkAllReadHandler)
	api.GET("/notifications/unread-count", nh.UnreadCountHandler)
	api.GET("/notifications/:id/diff", nh.DiffHandler)
	api.POST("/notifications/:id/undo", nh.UndoHandler)
	api.GET("/transactions", th.ListTransactionsHandler)
	api.POST("/transactions", th.CreateTransactionHandler)
	api.POST("/transactions/bulk-delete", th.BulkDeleteTransactionsHandler)
	api.GET("/transactions/:id", th.GetTransactionHandler)
	api.PATCH("/transactions/:id", th.EditTransactionHandler)
	api.DELETE("/transactions/:id", th.DeleteTransactionHandler)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env.Data
}

var coffeeBody = map[string]any{
	"payee":      "Coffee",
	"amount":     -450,
	"categoryId": "c2",
	"accountId":  "a1",
	"date":       "2024-01-05",
}

func TestDeleteThenUndoRoundTrip(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/transactions", coffeeBody)
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	tx := decode[models.Transaction](t, w)

	if w = do(t, r, http.MethodDelete, "/api/transactions/"+tx.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}

	list := decode[[]models.Notification](t, do(t, r, http.MethodGet, "/api/notifications", nil))
	if len(list) != 2 || list[0].Change != models.ChangeDeleted {
		t.Fatalf("unexpected log: %+v", list)
	}
	deleted := list[0]

	w = do(t, r, http.MethodGet, "/api/notifications/"+deleted.ID+"/diff", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("diff: %d %s", w.Code, w.Body.String())
	}
	if view := decode[models.DiffView](t, w); !view.CanUndo || len(view.Fields) != 6 {
		t.Fatalf("unexpected diff: %+v", view)
	}

	w = do(t, r, http.MethodPost, "/api/notifications/"+deleted.ID+"/undo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo: %d %s", w.Code, w.Body.String())
	}
	res := decode[models.UndoResult](t, w)
	if res.Action != models.UndoRecreated || res.Transaction.Payee != "Coffee" || res.Transaction.ID == tx.ID {
		t.Fatalf("unexpected undo result: %+v", res)
	}

	txs := decode[[]models.Transaction](t, do(t, r, http.MethodGet, "/api/transactions?accountId=a1", nil))
	if len(txs) != 1 {
		t.Fatalf("expected the recreated row, got %d", len(txs))
	}
}

func TestUndoCreatedIsConflict(t *testing.T) {
	r := setupRouter(t)
	do(t, r, http.MethodPost, "/api/transactions", coffeeBody)
	created := decode[[]models.Notification](t, do(t, r, http.MethodGet, "/api/notifications", nil))[0]

	if w := do(t, r, http.MethodPost, "/api/notifications/"+created.ID+"/undo", nil); w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/api/notifications/missing/undo", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestEditWithoutChangesIsUnchanged(t *testing.T) {
	r := setupRouter(t)
	tx := decode[models.Transaction](t, do(t, r, http.MethodPost, "/api/transactions", coffeeBody))

	w := do(t, r, http.MethodPatch, "/api/transactions/"+tx.ID, coffeeBody)
	if w.Code != http.StatusOK {
		t.Fatalf("edit: %d", w.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "unchanged" {
		t.Fatalf("expected unchanged status, got %s", w.Body.String())
	}
}

func TestNotificationEndpoints(t *testing.T) {
	r := setupRouter(t)

	w := do(t, r, http.MethodPost, "/api/notifications", map[string]any{
		"type": "warning", "title": "Low balance", "message": "Account a1 is below $10.00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: %d %s", w.Code, w.Body.String())
	}
	n := decode[models.Notification](t, w)

	// Linked without snapshots is rejected.
	w = do(t, r, http.MethodPost, "/api/notifications", map[string]any{
		"type": "info", "title": "Transaction Updated", "message": "x", "transactionId": "tx1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	if w = do(t, r, http.MethodGet, "/api/notifications?filter=bogus", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad filter, got %d", w.Code)
	}

	count := decode[map[string]int](t, do(t, r, http.MethodGet, "/api/notifications/unread-count", nil))
	if count["count"] != 1 {
		t.Fatalf("expected 1 unread, got %v", count)
	}

	w = do(t, r, http.MethodPatch, "/api/notifications", map[string]any{"id": n.ID, "read": true})
	if w.Code != http.StatusOK || !decode[models.Notification](t, w).Read {
		t.Fatalf("set read: %d %s", w.Code, w.Body.String())
	}
	if w = do(t, r, http.MethodPatch, "/api/notifications", map[string]any{"id": "missing", "read": true}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	unread := decode[[]models.Notification](t, do(t, r, http.MethodGet, "/api/notifications?filter=unread", nil))
	if len(unread) != 0 {
		t.Fatalf("expected no unread, got %d", len(unread))
	}

	if w = do(t, r, http.MethodGet, "/api/notifications/"+n.ID+"/diff", nil); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unlinked diff, got %d", w.Code)
	}

	if w = do(t, r, http.MethodDelete, "/api/notifications?id=missing", nil); w.Code != http.StatusOK {
		t.Fatalf("deleting a missing id should succeed, got %d", w.Code)
	}
	if w = do(t, r, http.MethodDelete, "/api/notifications", nil); w.Code != http.StatusOK {
		t.Fatalf("clear: %d", w.Code)
	}
	if list := decode[[]models.Notification](t, do(t, r, http.MethodGet, "/api/notifications", nil)); len(list) != 0 {
		t.Fatalf("expected empty log, got %d", len(list))
	}
}

func TestTransactionValidationAndBulkDelete(t *testing.T) {
	r := setupRouter(t)

	if w := do(t, r, http.MethodPost, "/api/transactions", map[string]any{"amount": 5}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/transactions?from=yesterday", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad date, got %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/api/transactions/missing", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	a := decode[models.Transaction](t, do(t, r, http.MethodPost, "/api/transactions", coffeeBody))
	b := decode[models.Transaction](t, do(t, r, http.MethodPost, "/api/transactions", coffeeBody))

	w := do(t, r, http.MethodPost, "/api/transactions/bulk-delete", map[string]any{"ids": []string{a.ID, b.ID}})
	if got := decode[map[string]int](t, w); got["deleted"] != 2 {
		t.Fatalf("expected 2 deleted, got %v", got)
	}

	head := decode[[]models.Notification](t, do(t, r, http.MethodGet, "/api/notifications", nil))[0]
	if head.Title != "Transactions Deleted" {
		t.Fatalf("expected bulk notification, got %q", head.Title)
	}
}
