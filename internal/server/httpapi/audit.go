package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) listAuditLogs(c *gin.Context) {
	action := models.AuditAction(c.Query("action"))
	switch action {
	case "", models.AuditActionUpdate, models.AuditActionDelete:
	default:
		writeError(c, fmt.Errorf("%w: unknown action %q", common.ErrorValidation, action))
		return
	}

	page, err := s.svc.AuditLogs.List(c.Request.Context(), models.AuditFilter{
		Page:     pageParam(c),
		RecordID: c.Query("recordId"),
		Action:   action,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
