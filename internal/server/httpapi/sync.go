package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) syncRecords(c *gin.Context) {
	var items []models.SyncItem
	if err := c.ShouldBindJSON(&items); err != nil {
		writeError(c, fmt.Errorf("%w: body must be an array of records", common.ErrorValidation))
		return
	}

	result := s.svc.Sync.Reconcile(c.Request.Context(), items)

	s.logger.Info(c.Request.Context(), "sync batch processed",
		"device_id", c.GetString(deviceIDKey),
		"items", len(items),
		"synced", len(result.Synced),
		"failed", len(result.Failed),
	)

	c.JSON(http.StatusOK, result)
}
