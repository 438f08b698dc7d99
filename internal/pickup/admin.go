package pickup

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pickup-service/internal/apperr"
	"pickup-service/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const csvExportLimit = 500

var csvHeader = []string{
	"id", "created_at", "updated_at", "status", "maker", "model",
	"drivable", "owner", "address", "phone", "email", "memo",
}

func (h *Handler) list(c *gin.Context) {
	f := ListFilter{
		Query:  strings.TrimSpace(c.Query("q")),
		Status: Status(strings.TrimSpace(c.Query("status"))),
		Limit:  parseLimit(c.Query("limit")),
	}

	rows, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		logger.Error("failed to list pickup requests", map[string]any{
			"error": err.Error(),
		})
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"rows": rows,
	})
}

// parseLimit floors and clamps to 1..MaxListLimit. Anything that is not a
// finite number gets the default.
func parseLimit(raw string) int {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return DefaultListLimit
	}
	return int(math.Max(1, math.Min(MaxListLimit, math.Floor(n))))
}

// patchRequest carries either a single update (id, status, memo) or a bulk
// status update (ids, status). The presence of an ids array selects bulk.
type patchRequest struct {
	ID     string          `json:"id"`
	IDs    json.RawMessage `json:"ids"`
	Status Status          `json:"status"`
	Memo   *string         `json:"memo"`
}

func (h *Handler) patch(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.Validation("Invalid JSON"))
		return
	}

	if ids, ok := parseIDs(req.IDs); ok {
		h.patchBulk(c, ids, req.Status)
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		apperr.Respond(c, ErrInvalidID)
		return
	}
	if !req.Status.Valid() {
		apperr.Respond(c, ErrInvalidStatus)
		return
	}

	if err := h.store.Update(c.Request.Context(), id, req.Status, req.Memo); err != nil {
		if apperr.KindOf(err) != apperr.KindNotFound {
			logger.Error("failed to update pickup request", map[string]any{
				"id":    id.String(),
				"error": err.Error(),
			})
		}
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) patchBulk(c *gin.Context, ids []uuid.UUID, status Status) {
	if len(ids) == 0 {
		apperr.Respond(c, ErrInvalidIDs)
		return
	}
	if !status.Valid() {
		apperr.Respond(c, ErrInvalidStatus)
		return
	}

	n, err := h.store.UpdateStatus(c.Request.Context(), ids, status)
	if err != nil {
		logger.Error("failed to bulk update pickup requests", map[string]any{
			"count": len(ids),
			"error": err.Error(),
		})
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
}

// parseIDs reports whether raw is a JSON array and returns its valid uuid
// entries. Anything else in the array is dropped.
func parseIDs(raw json.RawMessage) ([]uuid.UUID, bool) {
	var items []any
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil || items == nil {
		return nil, false
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if id, err := uuid.Parse(strings.TrimSpace(s)); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, true
}

func (h *Handler) exportCSV(c *gin.Context) {
	rows, err := h.store.List(c.Request.Context(), ListFilter{Limit: csvExportLimit})
	if err != nil {
		logger.Error("failed to export pickup requests", map[string]any{
			"error": err.Error(),
		})
		apperr.Respond(c, err)
		return
	}

	body, err := encodeCSV(rows)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="pickup_requests.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func encodeCSV(rows []Request) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		memo := ""
		if r.Memo != nil {
			memo = *r.Memo
		}
		record := []string{
			r.ID.String(),
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.UpdatedAt.UTC().Format(time.RFC3339),
			string(r.Status),
			r.Maker,
			r.Model,
			string(r.Drivable),
			string(r.Owner),
			r.Address,
			r.Phone,
			r.Email,
			memo,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
