package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/travel-type-quiz/internal/auth"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/database"
	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/scoring"
	"github.com/ZanzyTHEbar/travel-type-quiz/internal/types"
)

// Login godoc
// @Summary      Admin login
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request  body      types.LoginRequest  true  "Credentials"
// @Success      200      {object}  types.LoginResponse
// @Failure      401      {object}  types.ErrorResponse
// @Router       /api/v1/admin/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		apperrors.Respond(c, err)
		return
	}

	token, expiresAt, err := h.Auth.Login(req.Username, req.Password)
	if err != nil {
		h.Logger.SecurityLogger("admin_login_failed", c.ClientIP(), c.Request.UserAgent(),
			map[string]interface{}{"username": req.Username})
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// ListResponses godoc
// @Summary      Stored responses, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit    query     int     false  "Page size (max 500)"
// @Param        offset   query     int     false  "Offset"
// @Param        since    query     string  false  "RFC3339 lower bound"
// @Param        type     query     string  false  "Type code"
// @Param        pattern  query     string  false  "consistent, inconsistent or random"
// @Success      200      {object}  types.ResponseList
// @Failure      400      {object}  types.ErrorResponse
// @Failure      401      {object}  types.ErrorResponse
// @Router       /api/v1/admin/responses [get]
func (h *Handlers) ListResponses(c *gin.Context) {
	filter, err := parseFilter(c, true)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	items, err := h.Responses.ListResponses(ctx, filter)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to list responses", err))
		return
	}
	total, err := h.Responses.CountResponses(ctx, filter)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to count responses", err))
		return
	}

	c.JSON(http.StatusOK, types.ResponseList{
		Items:  items,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetResponse godoc
// @Summary      One stored response including raw answers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Response id"
// @Success      200  {object}  database.Response
// @Failure      404  {object}  types.ErrorResponse
// @Router       /api/v1/admin/responses/{id} [get]
func (h *Handlers) GetResponse(c *gin.Context) {
	resp, err := h.Responses.GetResponse(c.Request.Context(), c.Param("id"))
	if err != nil {
		if !apperrors.IsNotFound(err) {
			err = apperrors.NewInternalError("failed to load response", err)
		}
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteResponse godoc
// @Summary      Erase a stored response
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "Response id"
// @Success      204
// @Failure      404  {object}  types.ErrorResponse
// @Router       /api/v1/admin/responses/{id} [delete]
func (h *Handlers) DeleteResponse(c *gin.Context) {
	if err := h.Privacy.DeleteResponse(c.Request.Context(), c.Param("id")); err != nil {
		if !apperrors.IsNotFound(err) {
			err = apperrors.NewInternalError("failed to delete response", err)
		}
		apperrors.Respond(c, err)
		return
	}

	h.Logger.Info("Response erased", "id", c.Param("id"), "admin", adminSubject(c))
	c.Status(http.StatusNoContent)
}

// GetAnalyticsSummary godoc
// @Summary      Type distribution and reliability overview
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        since  query     string  false  "RFC3339 lower bound"
// @Success      200    {object}  analytics.Summary
// @Failure      400    {object}  types.ErrorResponse
// @Router       /api/v1/admin/analytics/summary [get]
func (h *Handlers) GetAnalyticsSummary(c *gin.Context) {
	since, err := parseSince(c.Query("since"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	summary, err := h.Analytics.Summary(c.Request.Context(), since)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to build analytics summary", err))
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportResponses godoc
// @Summary      CSV export of stored responses
// @Tags         admin
// @Produce      text/csv
// @Security     BearerAuth
// @Param        since    query  string  false  "RFC3339 lower bound"
// @Param        type     query  string  false  "Type code"
// @Param        pattern  query  string  false  "Reliability pattern"
// @Success      200
// @Router       /api/v1/admin/export.csv [get]
func (h *Handlers) ExportResponses(c *gin.Context) {
	filter, err := parseFilter(c, false)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	total, err := h.Responses.CountResponses(ctx, filter)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to count responses", err))
		return
	}

	filename := "quiz-responses-" + time.Now().UTC().Format("20060102") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("X-Total-Count", strconv.Itoa(total))
	c.Status(http.StatusOK)

	rows, err := h.Analytics.ExportCSV(ctx, c.Writer, filter)
	if err != nil {
		// headers are already out; the truncated file is the only signal the client gets
		h.Logger.Error("CSV export failed", "rows_written", rows, "error", err)
		_ = c.Error(err)
		return
	}

	h.Logger.Info("CSV export completed", "rows", rows, "admin", adminSubject(c), "ip", c.ClientIP())
}

// adminSubject names the operator behind an authenticated request for audit logs
func adminSubject(c *gin.Context) string {
	if claims, ok := auth.ClaimsFromContext(c); ok {
		return claims.Subject
	}
	return "unknown"
}

// PurgeExpired godoc
// @Summary      Delete responses older than the retention window
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Retention window in days (defaults to the configured window)"
// @Success      200   {object}  types.PurgeResponse
// @Router       /api/v1/admin/retention/purge [post]
func (h *Handlers) PurgeExpired(c *gin.Context) {
	days := h.Privacy.RetentionPolicy().RetentionDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apperrors.Respond(c, apperrors.NewValidationErrorWithMap("Invalid request",
				map[string]string{"days": "must be a positive integer"}))
			return
		}
		days = n
	}

	deleted, err := h.Privacy.PurgeExpired(c.Request.Context(), days)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("failed to purge responses", err))
		return
	}

	h.Logger.Info("Manual retention purge", "deleted", deleted, "retention_days", days, "admin", adminSubject(c))
	c.JSON(http.StatusOK, types.PurgeResponse{Deleted: deleted, RetentionDays: days})
}

// GetAdminStats godoc
// @Summary      Operational counters for the dashboard
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/admin/stats [get]
func (h *Handlers) GetAdminStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"submissions": h.Metrics.GetSubmissionStats(),
		"rate_limit":  h.Limiter.GetStats(),
		"cache":       h.Questions.Stats(),
		"compression": h.Compression.GetStats(),
	})
}

func parseSince(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationErrorWithMap("Invalid request",
			map[string]string{"since": "must be an RFC3339 timestamp"})
	}
	return t, nil
}

// parseFilter reads the listing filter from the query string; paging is only
// read when paged is set
func parseFilter(c *gin.Context, paged bool) (database.ListFilter, error) {
	var filter database.ListFilter
	problems := map[string]string{}

	if paged {
		filter.Limit = database.DefaultListLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > database.MaxListLimit {
				problems["limit"] = "must be between 1 and " + strconv.Itoa(database.MaxListLimit)
			} else {
				filter.Limit = n
			}
		}
		if raw := c.Query("offset"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				problems["offset"] = "must be a non-negative integer"
			} else {
				filter.Offset = n
			}
		}
	}

	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			problems["since"] = "must be an RFC3339 timestamp"
		} else {
			filter.Since = t
		}
	}

	filter.TypeCode = c.Query("type")
	if len(filter.TypeCode) > 16 {
		problems["type"] = "must be at most 16 characters"
	}

	switch p := scoring.Pattern(c.Query("pattern")); p {
	case "", scoring.PatternConsistent, scoring.PatternInconsistent, scoring.PatternRandom:
		filter.Pattern = string(p)
	default:
		problems["pattern"] = "must be consistent, inconsistent or random"
	}

	if len(problems) > 0 {
		return filter, apperrors.NewValidationErrorWithMap("Invalid request", problems)
	}
	return filter, nil
}
