package handlers

import (
	"laundry_manager/internal/apperr"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError logs err once and answers with its kind and caller-facing text.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	message := apperr.Message(err)
	if kind == apperr.KindUnknown {
		message = "internal error"
	}
	c.AbortWithStatusJSON(statusFor(kind), gin.H{"error": message, "kind": kind.String()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message, "kind": apperr.KindValidation.String()})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseTime accepts RFC 3339 timestamps or plain dates in loc.
func parseTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

// dateRange reads ?from=&to=. A missing to means now, a missing from means
// thirty days before to. A plain-date to covers that whole day.
func dateRange(c *gin.Context, loc *time.Location) (time.Time, time.Time, bool) {
	to := time.Now().In(loc)
	if v := c.Query("to"); v != "" {
		t, err := parseTime(v, loc)
		if err != nil {
			badRequest(c, "invalid to")
			return time.Time{}, time.Time{}, false
		}
		if len(v) == len("2006-01-02") {
			t = t.AddDate(0, 0, 1)
		}
		to = t
	}
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		t, err := parseTime(v, loc)
		if err != nil {
			badRequest(c, "invalid from")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	return from, to, true
}

func intQuery(c *gin.Context, name string, def int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
