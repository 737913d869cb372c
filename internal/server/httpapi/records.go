package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/server/document"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

const maxBodyBytes = 1 << 20

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable body", common.ErrorValidation)
	}
	return body, nil
}

// policeIdentifier reads the officer credential from a JSON body. The value
// must be a string; surrounding whitespace is trimmed.
func policeIdentifier(body []byte) string {
	v := gjson.GetBytes(body, common.PoliceIdentifierKey)
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}

func (s *Server) createRecord(c *gin.Context) {
	var in models.NewRecord
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, fmt.Errorf("%w: malformed record", common.ErrorValidation))
		return
	}

	r, err := s.svc.Records.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": r.ID})
}

func (s *Server) listRecords(c *gin.Context) {
	page, err := s.svc.Records.List(c.Request.Context(), models.RecordFilter{
		Page:       pageParam(c),
		SearchTerm: c.Query("searchTerm"),
		TypeFilter: c.Query("typeFilter"),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (s *Server) getRecord(c *gin.Context) {
	r, err := s.svc.Records.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (s *Server) updateRecord(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		writeError(c, err)
		return
	}

	pid := policeIdentifier(body)
	if pid == "" {
		writeError(c, fmt.Errorf("%w: %s is required", common.ErrorValidation, common.PoliceIdentifierKey))
		return
	}

	patch, err := fields.ParsePatch(body)
	if err != nil {
		writeError(c, err)
		return
	}

	r, err := s.svc.Records.Update(c.Request.Context(), services.UpdateRequest{
		RecordID:         c.Param("id"),
		PoliceIdentifier: pid,
		Patch:            patch,
		SourceAddress:    c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, r)
}

func (s *Server) deleteRecord(c *gin.Context) {
	body, err := readBody(c)
	if err != nil {
		writeError(c, err)
		return
	}

	pid := policeIdentifier(body)
	if pid == "" {
		pid = strings.TrimSpace(c.Query(common.PoliceIdentifierKey))
	}
	if pid == "" {
		writeError(c, fmt.Errorf("%w: %s is required", common.ErrorValidation, common.PoliceIdentifierKey))
		return
	}

	err = s.svc.Records.Delete(c.Request.Context(), services.DeleteRequest{
		RecordID:         c.Param("id"),
		PoliceIdentifier: pid,
		SourceAddress:    c.ClientIP(),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) recordDocument(c *gin.Context) {
	id := c.Param("id")

	pdf, err := s.svc.Records.Document(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, document.Filename(id)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
