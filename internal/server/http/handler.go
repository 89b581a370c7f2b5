package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/dutybadge/internal/api"
	"github.com/dmitrijs2005/dutybadge/internal/server/auth"
	"github.com/dmitrijs2005/dutybadge/internal/server/views"
)

func (s *HTTPServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *HTTPServer) handleStart(c *gin.Context) {
	ctx := c.Request.Context()
	id, _ := auth.IdentityFrom(ctx)

	info, err := s.duty.Start(ctx, id.UserID, id.DisplayName)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.StartResult(info))
}

func (s *HTTPServer) handleStop(c *gin.Context) {
	ctx := c.Request.Context()
	id, _ := auth.IdentityFrom(ctx)

	info, err := s.duty.Stop(ctx, id.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.StopResult(info))
}

func (s *HTTPServer) handleMe(c *gin.Context) {
	ctx := c.Request.Context()
	id, _ := auth.IdentityFrom(ctx)

	c.JSON(http.StatusOK, views.Status(s.reports.Status(ctx, id.UserID)))
}

func (s *HTTPServer) handleOnDuty(c *gin.Context) {
	c.JSON(http.StatusOK, views.OnDuty(s.reports.OnDuty(c.Request.Context())))
}

func (s *HTTPServer) handleReport(c *gin.Context) {
	var limit int
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, api.Error{Code: "invalid_argument", Message: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	rep, err := s.reports.Report(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.Report(rep))
}

// writeError answers with the status matching the error's kind. Storage
// details stay in the log.
func (s *HTTPServer) writeError(c *gin.Context, err error) {
	p := views.Classify(err)

	var code int
	switch p.Kind {
	case views.KindAlreadyOnDuty, views.KindNotOnDuty, views.KindClockSkew:
		code = http.StatusConflict
	case views.KindUnknownUser:
		code = http.StatusNotFound
	case views.KindUnavailable:
		code = http.StatusServiceUnavailable
	case views.KindCanceled:
		code = 499
	default:
		s.logger.Error(c.Request.Context(), "unexpected error", "error", err)
		code = http.StatusInternalServerError
	}
	c.JSON(code, api.Error{Code: string(p.Kind), Message: p.Message})
}
