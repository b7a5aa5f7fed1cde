package handlers

import (
	"net/http"

	"finzo/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check. It answers 503 when any
// probed dependency was down.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	state := "ok"
	for _, up := range status.Checks {
		if !up {
			code = http.StatusServiceUnavailable
			state = "degraded"
			break
		}
	}
	c.JSON(code, gin.H{"status": state, "checks": status.Checks, "checkedAt": status.CheckedAt})
}
