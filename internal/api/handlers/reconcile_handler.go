package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/internal/api/presenters"
	"github.com/whaleen/warehouse-sub000/internal/utils"
	"github.com/whaleen/warehouse-sub000/internal/utils/mailing"
	"github.com/whaleen/warehouse-sub000/internal/utils/storage"
	"github.com/whaleen/warehouse-sub000/pkg/reconcile"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReconcileHandler interface {
		Import(c *fiber.Ctx) error
		ImportCSV(c *fiber.Ctx) error
		Resync(c *fiber.Ctx) error
		MergeBatches(c *fiber.Ctx) error
		GetConflicts(c *fiber.Ctx) error
		ResolveConflict(c *fiber.Ctx) error
	}

	reconcileHandler struct {
		reconcileService reconcile.ReconcileService
		validator        *validator.Validate
		s3               storage.AwsS3
	}
)

func NewReconcileHandler(reconcileService reconcile.ReconcileService, validator *validator.Validate, s3 storage.AwsS3) ReconcileHandler {
	return &reconcileHandler{
		reconcileService: reconcileService,
		validator:        validator,
		s3:               s3,
	}
}

func (h *reconcileHandler) Import(c *fiber.Ctx) error {
	req := new(domain.ImportRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedImport, err)
	}

	scope, err := scopeFromCtx(c, req.Category)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedImport, err)
	}

	summary, err := h.reconcileService.Run(c.Context(), scope, req.Batches)
	return h.respondSummary(c, scope, summary, err, domain.MessageSuccessImport, domain.MessageFailedImport)
}

// ImportCSV accepts one CSV file per batch under the multipart key "files".
// The batch number is the file name without extension. Files are archived
// to S3 after a successful parse; an archive failure is logged, not fatal.
func (h *reconcileHandler) ImportCSV(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.FormValue("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedImport, err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	files := form.File["files"]
	if len(files) == 0 {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedImport, domain.ErrEmptyFeed)
	}

	feed := make([]domain.FeedBatch, 0, len(files))
	for _, file := range files {
		name := file.Filename
		if dot := strings.LastIndex(name, "."); dot > 0 {
			name = name[:dot]
		}
		batch := domain.FeedBatch{
			BatchNumber: name,
			ScannedAt:   c.FormValue("scanned_at"),
		}

		src, openErr := file.Open()
		if openErr != nil {
			batch.ReadErr = openErr
			feed = append(feed, batch)
			continue
		}
		batch = reconcile.ParseFeedCSV(batch, src)
		src.Close()
		feed = append(feed, batch)

		if batch.ReadErr == nil {
			archiveName := fmt.Sprintf("%s-%s-%d", scope.Category, batch.BatchNumber, time.Now().Unix())
			if _, archiveErr := h.s3.UploadFile(archiveName, file, "feed-archive", storage.AllowCSV...); archiveErr != nil {
				log.Printf("failed to archive feed file %s: %v", file.Filename, archiveErr)
			}
		}
	}

	summary, err := h.reconcileService.Run(c.Context(), scope, feed)
	return h.respondSummary(c, scope, summary, err, domain.MessageSuccessImport, domain.MessageFailedImport)
}

func (h *reconcileHandler) Resync(c *fiber.Ctx) error {
	req := new(domain.ResyncRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResync, err)
	}

	scope, err := scopeFromCtx(c, req.Category)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResync, err)
	}

	summary, err := h.reconcileService.Resync(c.Context(), scope, req.Batches, req.PreserveMetadata)
	return h.respondSummary(c, scope, summary, err, domain.MessageSuccessResync, domain.MessageFailedResync)
}

// respondSummary reports counts even on partial failure: a reconciliation
// run never hides what it managed to commit.
func (h *reconcileHandler) respondSummary(c *fiber.Ctx, scope domain.Scope, summary domain.ReconcileSummary, err error, successMessage, failureMessage string) error {
	go h.sendSummaryMail(scope, summary)

	if err != nil {
		if len(summary.Errors) > 0 {
			return c.Status(fiber.StatusInternalServerError).JSON(presenters.Response{
				Success: false,
				Message: domain.MessagePartialReconcileFailure,
				Data:    summary,
				Error:   err.Error(),
			})
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, failureMessage, err)
	}

	return presenters.SuccessResponse(c, summary, fiber.StatusOK, successMessage)
}

func (h *reconcileHandler) sendSummaryMail(scope domain.Scope, summary domain.ReconcileSummary) {
	recipient := utils.GetConfig("IMPORT_REPORT_TO")
	if recipient == "" {
		return
	}

	subject := fmt.Sprintf("Reconciliation report: %s", scope.Category)
	body := fmt.Sprintf(
		"<p>Category: %s</p><p>Batches in feed: %d (unique %d, new %d, updated %d)</p>"+
			"<p>Items processed: %d (inserted %d, updated %d, orphaned %d)</p>"+
			"<p>Conflicts logged: %d, serials excluded: %d</p><p>Errors: %s</p>",
		scope.Category,
		summary.BatchesInFeed, summary.UniqueBatches, summary.NewBatches, summary.UpdatedBatches,
		summary.ItemsProcessed, summary.ItemsInserted, summary.ItemsUpdated, summary.ItemsOrphaned,
		summary.ConflictsLogged, summary.SerialsExcluded,
		strings.Join(summary.Errors, "; "),
	)

	if err := mailing.SendMail(recipient, subject, body); err != nil {
		log.Printf("failed to send reconciliation report: %v", err)
	}
}

func (h *reconcileHandler) MergeBatches(c *fiber.Ctx) error {
	req := new(domain.MergeBatchesRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMergeBatches, err)
	}

	scope, err := scopeFromCtx(c, req.Category)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMergeBatches, err)
	}

	if err := h.reconcileService.MergeBatches(c.Context(), scope, *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedMergeBatches, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMergeBatches)
}

func (h *reconcileHandler) GetConflicts(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.Params("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetConflicts, err)
	}

	conflicts, err := h.reconcileService.GetConflicts(c.Context(), scope, c.Query("status", "all"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetConflicts, err)
	}

	return presenters.SuccessResponse(c, conflicts, fiber.StatusOK, domain.MessageSuccessGetConflicts)
}

func (h *reconcileHandler) ResolveConflict(c *fiber.Ctx) error {
	scope, err := scopeFromCtx(c, c.Params("category"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResolveConflict, err)
	}

	if err := h.reconcileService.ResolveConflict(c.Context(), scope, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedResolveConflict, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessResolveConflict)
}
