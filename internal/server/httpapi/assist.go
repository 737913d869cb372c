package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/gin-gonic/gin"
)

type autofillRequest struct {
	UserInput string `json:"userInput"`
}

func (s *Server) transcribe(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, fmt.Errorf("%w: audio file is missing", common.ErrorValidation))
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, fmt.Errorf("%w: audio file is unreadable", common.ErrorValidation))
		return
	}
	defer f.Close()

	text, err := s.svc.Transcriber.Transcribe(c.Request.Context(), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		s.logger.Error(c.Request.Context(), "transcription failed", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"text": text})
}

func (s *Server) autofill(c *gin.Context) {
	var req autofillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: malformed body", common.ErrorValidation))
		return
	}

	patch, err := s.svc.Extractor.Extract(c.Request.Context(), req.UserInput)
	if err != nil {
		s.logger.Error(c.Request.Context(), "autofill failed", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, patch)
}
