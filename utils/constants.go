// File: utils/constants.go
package utils

// NotificationCacheKey is the Redis key holding the serialized notification log.
const NotificationCacheKey = "notifications:list"

// ContextUserIDKey is the gin context key set by the bearer-token middleware.
const ContextUserIDKey = "userID"
