package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Valentin39220/bini-crm/internal/prospects/domain"
	"github.com/Valentin39220/bini-crm/internal/prospects/export"
	"github.com/Valentin39220/bini-crm/internal/prospects/pipeline"
)

func (h *Handler) taxonomy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"statuses":     domain.Statuses(),
		"temperatures": domain.Temperatures(),
	})
}

func (h *Handler) list(c *gin.Context) {
	term := c.Query("q")
	status := c.DefaultQuery("status", pipeline.StatusAll)

	items := pipeline.Filter(h.svc.List(), term, status)
	c.JSON(http.StatusOK, gin.H{"ok": true, "prospects": viewsOf(items, h.svc.Today())})
}

func (h *Handler) get(c *gin.Context) {
	p := h.svc.Get(c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prospect not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prospect": viewOf(*p, h.svc.Today())})
}

func (h *Handler) create(c *gin.Context) {
	draft, ok := bindDraft(c)
	if !ok {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "prospect": viewOf(*p, h.svc.Today())})
}

func (h *Handler) update(c *gin.Context) {
	draft, ok := bindDraft(c)
	if !ok {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prospect not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prospect": viewOf(*p, h.svc.Today())})
}

func (h *Handler) delete(c *gin.Context) {
	ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prospect not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) setStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), domain.StatusID(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prospect not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prospect": viewOf(*p, h.svc.Today())})
}

func (h *Handler) addNote(c *gin.Context) {
	var req addNoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.svc.AddNote(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prospect not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prospect": viewOf(*p, h.svc.Today())})
}

func (h *Handler) stats(c *gin.Context) {
	today, ok := h.today(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "today": today, "stats": pipeline.ComputeStats(h.svc.List(), today)})
}

func (h *Handler) dashboard(c *gin.Context) {
	today, ok := h.today(c)
	if !ok {
		return
	}
	d := pipeline.BuildDashboard(h.svc.List(), today)
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"today":   today,
		"stats":   d.Stats,
		"urgent":  viewsOf(d.Urgent, today),
		"hotOpen": viewsOf(d.HotOpen, today),
	})
}

func (h *Handler) board(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "columns": pipeline.PipelineBoard(h.svc.List())})
}

func (h *Handler) exportCSV(c *gin.Context) {
	prospects := h.svc.List()

	var body string
	switch format := c.DefaultQuery("format", "plain"); format {
	case "plain":
		body = export.ToCSV(prospects)
	case "rfc4180":
		out, err := export.ToRFC4180(prospects)
		if err != nil {
			writeError(c, err)
			return
		}
		body = out
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": fmt.Sprintf("unknown format %q", format)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	c.Data(http.StatusOK, export.ContentType, []byte(body))
}

func (h *Handler) selected(c *gin.Context) {
	p := h.svc.Selected()
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "prospect": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prospect": viewOf(*p, h.svc.Today())})
}

func (h *Handler) selectProspect(c *gin.Context) {
	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p := h.svc.Select(req.ID)
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prospect not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "prospect": viewOf(*p, h.svc.Today())})
}

func (h *Handler) clearSelection(c *gin.Context) {
	h.svc.ClearSelection()
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// today reads the optional ?today=YYYY-MM-DD override.
func (h *Handler) today(c *gin.Context) (domain.Date, bool) {
	raw := c.Query("today")
	if raw == "" {
		return h.svc.Today(), true
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.Date{}, false
	}
	return d, true
}

func bindDraft(c *gin.Context) (domain.Draft, bool) {
	var req prospectReq
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Company) == "" || strings.TrimSpace(req.Contact) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: company and contact are required"})
		return domain.Draft{}, false
	}

	draft, err := req.toDraft()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return domain.Draft{}, false
	}
	return draft, true
}

func (r prospectReq) toDraft() (domain.Draft, error) {
	followUp, err := domain.ParseDate(r.NextFollowUp)
	if err != nil {
		return domain.Draft{}, err
	}

	var amount domain.Amount
	if r.EstimatedValue != nil {
		amount, err = domain.AmountFromFloat(*r.EstimatedValue)
		if err != nil {
			return domain.Draft{}, err
		}
	}

	var notes []domain.Note
	if r.Notes != nil {
		notes = make([]domain.Note, 0, len(r.Notes))
		for _, n := range r.Notes {
			d, err := domain.ParseDate(n.Date)
			if err != nil {
				return domain.Draft{}, err
			}
			notes = append(notes, domain.Note{Date: d, Text: n.Text})
		}
	}

	draft := domain.Draft{
		Company:        strings.TrimSpace(r.Company),
		Contact:        strings.TrimSpace(r.Contact),
		Phone:          r.Phone,
		Email:          r.Email,
		Status:         domain.StatusID(r.Status),
		Temperature:    domain.TemperatureID(r.Temperature),
		Source:         r.Source,
		NextFollowUp:   followUp,
		EstimatedValue: amount,
		Notes:          notes,
	}
	if err := draft.Validate(); err != nil {
		return domain.Draft{}, err
	}
	return draft, nil
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownStatus),
		errors.Is(err, domain.ErrUnknownTemperature),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
