package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// JWTSecret enables bearer-token checks on /api when non-empty.
	JWTSecret []byte

	// Notification endpoints
	ListNotificationsHandler   gin.HandlerFunc
	CreateNotificationHandler  gin.HandlerFunc
	SetNotificationReadHandler gin.HandlerFunc
	DeleteNotificationsHandler gin.HandlerFunc
	MarkAllReadHandler         gin.HandlerFunc
	UnreadCountHandler         gin.HandlerFunc
	NotificationDiffHandler    gin.HandlerFunc
	UndoNotificationHandler    gin.HandlerFunc

	// Transaction endpoints
	ListTransactionsHandler       gin.HandlerFunc
	GetTransactionHandler         gin.HandlerFunc
	CreateTransactionHandler      gin.HandlerFunc
	EditTransactionHandler        gin.HandlerFunc
	DeleteTransactionHandler      gin.HandlerFunc
	BulkDeleteTransactionsHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(nh *NotificationHandler, th *TransactionHandler, secret []byte) *HandlerBundle {
	return &HandlerBundle{
		JWTSecret: secret,

		ListNotificationsHandler:   nh.ListNotificationsHandler,
		CreateNotificationHandler:  nh.CreateNotificationHandler,
		SetNotificationReadHandler: nh.SetReadHandler,
		DeleteNotificationsHandler: nh.DeleteNotificationsHandler,
		MarkAllReadHandler:         nh.MarkAllReadHandler,
		UnreadCountHandler:         nh.UnreadCountHandler,
		NotificationDiffHandler:    nh.DiffHandler,
		UndoNotificationHandler:    nh.UndoHandler,

		ListTransactionsHandler:       th.ListTransactionsHandler,
		GetTransactionHandler:         th.GetTransactionHandler,
		CreateTransactionHandler:      th.CreateTransactionHandler,
		EditTransactionHandler:        th.EditTransactionHandler,
		DeleteTransactionHandler:      th.DeleteTransactionHandler,
		BulkDeleteTransactionsHandler: th.BulkDeleteTransactionsHandler,

		HealthHandler: HealthHandler,
	}
}
