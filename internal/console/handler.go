// Package console serves the inventory console: list and search, exports,
// reports, and edit sessions, all backed by the remote record store.
package console

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"carmodel-inventory/internal/attachment"
	"carmodel-inventory/internal/catalog"
	"carmodel-inventory/internal/export"
	"carmodel-inventory/internal/metrics"
	"carmodel-inventory/internal/model"
	"carmodel-inventory/internal/reconcile"
	"carmodel-inventory/internal/report"
	"carmodel-inventory/internal/storeclient"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

// Store is what the console needs from the record store.
type Store interface {
	reconcile.Store
	report.Source
	List(ctx context.Context) ([]model.Record, error)
	Get(ctx context.Context, id string) (*model.Record, error)
	Delete(ctx context.Context, id string) error
	AssetURL(ref string) string
}

type Handler struct {
	store      Store
	sessions   *SessionRegistry
	exporter   *export.Exporter
	aggregator *report.Aggregator
	metrics    *metrics.Metrics
	locale     language.Tag
	logger     *slog.Logger
}

func NewHandler(store Store, exporter *export.Exporter, m *metrics.Metrics, locale language.Tag, logger *slog.Logger) *Handler {
	logger = logger.With(slog.String("component", "console"))
	return &Handler{
		store:    store,
		sessions: NewSessionRegistry(),
		exporter: exporter,
		aggregator: report.NewAggregator(store, logger, func(section string) {
			m.ReportFailures.WithLabelValues(section).Inc()
		}),
		metrics: m,
		locale:  locale,
		logger:  logger,
	}
}

// Sessions exposes the open edit sessions.
func (h *Handler) Sessions() *SessionRegistry { return h.sessions }

// Register mounts the console routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/models", h.ListModels)
	r.Delete("/models/:id", h.DeleteModel)
	r.Get("/models/export/pdf", h.ExportPDF)
	r.Get("/models/export/xlsx", h.ExportXLSX)

	r.Get("/reports", h.Reports)

	r.Post("/sessions", h.OpenSession)
	r.Post("/sessions/:sid/images", h.StageImages)
	r.Delete("/sessions/:sid/images", h.RemoveImage)
	r.Post("/sessions/:sid/submit", h.Submit)
	r.Delete("/sessions/:sid", h.CancelSession)
}

// loadFiltered fetches the collection fresh and narrows it by ?q=.
func (h *Handler) loadFiltered(c *fiber.Ctx) ([]model.Record, error) {
	records, err := h.store.List(c.UserContext())
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Record{}
	}
	return catalog.Filter(records, c.Query("q")), nil
}

func (h *Handler) assetURLs(refs []string) []string {
	urls := make([]string, 0, len(refs))
	for _, ref := range refs {
		urls = append(urls, h.store.AssetURL(ref))
	}
	return urls
}

// withURLs resolves each record's images for display.
func (h *Handler) withURLs(records []model.Record) []model.Record {
	for i := range records {
		records[i].ImageURLs = h.assetURLs(records[i].Images)
	}
	return records
}

// ListModels returns the filtered collection
// GET /api/models?q=
func (h *Handler) ListModels(c *fiber.Ctx) error {
	records, err := h.loadFiltered(c)
	if err != nil {
		h.logger.Error("list car models", slog.String("error", err.Error()))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load car models"})
	}
	return c.JSON(h.withURLs(records))
}

// DeleteModel deletes a record; the list view reloads afterwards
// DELETE /api/models/:id
func (h *Handler) DeleteModel(c *fiber.Ctx) error {
	if err := h.store.Delete(c.UserContext(), c.Params("id")); err != nil {
		h.logger.Error("delete car model", slog.String("id", c.Params("id")), slog.String("error", err.Error()))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to delete car model"})
	}
	return c.JSON(fiber.Map{"message": "Car model deleted"})
}

func (h *Handler) exporterFor(c *fiber.Ctx) *export.Exporter {
	return h.exporter.ForLocale(export.LocaleFromHeader(c.Get(fiber.HeaderAcceptLanguage), h.locale))
}

// ExportPDF downloads the filtered collection as a PDF table
// GET /api/models/export/pdf?q=
func (h *Handler) ExportPDF(c *fiber.Ctx) error {
	return h.download(c, "pdf", export.PDFFilename, export.PDFContentType, h.exporterFor(c).PrintDocument)
}

// ExportXLSX downloads the filtered collection as a workbook
// GET /api/models/export/xlsx?q=
func (h *Handler) ExportXLSX(c *fiber.Ctx) error {
	return h.download(c, "xlsx", export.XLSXFilename, export.XLSXContentType, h.exporterFor(c).Spreadsheet)
}

func (h *Handler) download(c *fiber.Ctx, format, filename, contentType string, render func([]model.Record) ([]byte, error)) error {
	records, err := h.loadFiltered(c)
	if err != nil {
		h.logger.Error("export: list car models", slog.String("error", err.Error()))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load car models"})
	}

	data, err := render(records)
	if err != nil {
		h.logger.Error("export", slog.String("format", format), slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export car models"})
	}
	h.metrics.Exports.WithLabelValues(format).Inc()

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

// Reports loads the four report sections independently
// GET /api/reports
func (h *Handler) Reports(c *fiber.Ctx) error {
	return c.JSON(h.aggregator.Load(c.UserContext()))
}

type sessionResponse struct {
	Session  string            `json:"session"`
	Mode     string            `json:"mode"`
	RecordID string            `json:"recordId,omitempty"`
	Fields   *reconcile.Fields `json:"fields,omitempty"`
	Kept     []string          `json:"kept"`
	KeptURLs []string          `json:"keptUrls"`
	Pending  int               `json:"pending"`
}

func (h *Handler) sessionView(id string, s *reconcile.Session) sessionResponse {
	kept, pending := s.Snapshot()
	resp := sessionResponse{
		Session:  id,
		Mode:     s.Mode().String(),
		RecordID: s.RecordID(),
		Kept:     kept,
		KeptURLs: h.assetURLs(kept),
		Pending:  len(pending),
	}
	if s.Mode() == reconcile.ModeUpdate {
		fields := s.Initial()
		resp.Fields = &fields
	}
	return resp
}

// OpenSession starts an edit session. An empty id starts a create session.
// POST /api/sessions
func (h *Handler) OpenSession(c *fiber.Ctx) error {
	var req struct {
		ID string `json:"id"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
		}
	}

	var s *reconcile.Session
	if req.ID == "" {
		s = reconcile.NewCreateSession(h.store)
	} else {
		record, err := h.store.Get(c.UserContext(), req.ID)
		if err != nil {
			var se *storeclient.StoreError
			if errors.As(err, &se) && se.Status == http.StatusNotFound {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Car model not found"})
			}
			h.logger.Error("open session", slog.String("id", req.ID), slog.String("error", err.Error()))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to load car model"})
		}
		s = reconcile.NewUpdateSession(h.store, record)
	}

	id := h.sessions.Open(s)
	return c.Status(fiber.StatusCreated).JSON(h.sessionView(id, s))
}

func (h *Handler) session(c *fiber.Ctx) (string, *reconcile.Session, error) {
	id := c.Params("sid")
	s, ok := h.sessions.Get(id)
	if !ok {
		return id, nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Edit session not found"})
	}
	return id, s, nil
}

// StageImages stages the uploaded files; ?replace=true re-selects
// POST /api/sessions/:sid/images
func (h *Handler) StageImages(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if s == nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid multipart form"})
	}
	blobs, err := readBlobs(form.File[storeclient.FieldImages])
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to read uploaded files"})
	}

	res, err := s.Stage(blobs, c.QueryBool("replace"))
	if errors.Is(err, reconcile.ErrSubmitInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if res.Ignored > 0 {
		h.metrics.StagedIgnored.Add(float64(res.Ignored))
	}

	return c.JSON(fiber.Map{
		"staged":  res.Staged,
		"ignored": res.Ignored,
		"warning": res.Warning(),
		"session": h.sessionView(id, s),
	})
}

func readBlobs(files []*multipart.FileHeader) ([]attachment.Blob, error) {
	blobs := make([]attachment.Blob, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, attachment.Blob{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Data:        data,
		})
	}
	return blobs, nil
}

// RemoveImage marks an existing image for removal
// DELETE /api/sessions/:sid/images?ref=
func (h *Handler) RemoveImage(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if s == nil {
		return err
	}

	removed, err := s.Remove(c.Query("ref"))
	if errors.Is(err, reconcile.ErrSubmitInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"removed": removed, "session": h.sessionView(id, s)})
}

// Submit sends the session to the store. The session ends on success and
// stays open on failure so the user can retry.
// POST /api/sessions/:sid/submit
func (h *Handler) Submit(c *fiber.Ctx) error {
	id, s, err := h.session(c)
	if s == nil {
		return err
	}

	var fields reconcile.Fields
	if err := c.BodyParser(&fields); err != nil {
		var ferr *reconcile.FieldError
		if errors.As(err, &ferr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ferr.Error(), "field": ferr.Field})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	mode := s.Mode().String()
	record, err := s.Submit(c.UserContext(), fields)
	if err != nil {
		var ferr *reconcile.FieldError
		var serr *reconcile.SubmitError
		switch {
		case errors.As(err, &ferr):
			h.metrics.Submissions.WithLabelValues(mode, "invalid").Inc()
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ferr.Error(), "field": ferr.Field})
		case errors.Is(err, reconcile.ErrSubmitInProgress):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		case errors.As(err, &serr):
			h.metrics.Submissions.WithLabelValues(mode, "failed").Inc()
			h.logger.Warn("submit failed", slog.String("session", id), slog.String("error", serr.Err.Error()))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": serr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	h.metrics.Submissions.WithLabelValues(mode, "success").Inc()
	h.sessions.Close(id)
	record.ImageURLs = h.assetURLs(record.Images)
	return c.JSON(record)
}

// CancelSession discards a session
// DELETE /api/sessions/:sid
func (h *Handler) CancelSession(c *fiber.Ctx) error {
	h.sessions.Close(c.Params("sid"))
	return c.SendStatus(fiber.StatusNoContent)
}
