package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/whaleen/warehouse-sub000/domain"
	"github.com/whaleen/warehouse-sub000/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ReconcileService interface {
		Run(ctx context.Context, scope domain.Scope, feed []domain.FeedBatch) (domain.ReconcileSummary, error)
		Resync(ctx context.Context, scope domain.Scope, feed []domain.FeedBatch, preserveMetadata bool) (domain.ReconcileSummary, error)
		MergeBatches(ctx context.Context, scope domain.Scope, req domain.MergeBatchesRequest) error
		GetConflicts(ctx context.Context, scope domain.Scope, status string) ([]domain.ConflictResponse, error)
		ResolveConflict(ctx context.Context, scope domain.Scope, id string) error
	}

	reconcileService struct {
		reconcileRepository ReconcileRepository
		catalog             CatalogLookup
	}
)

func NewReconcileService(reconcileRepository ReconcileRepository, catalog CatalogLookup) ReconcileService {
	return &reconcileService{
		reconcileRepository: reconcileRepository,
		catalog:             catalog,
	}
}

// Run executes one reconciliation pass for the scope: normalize the feed,
// canonicalize serials, record conflicts, exclude serials claimed by other
// categories, and diff the result against the stored items. Canonicalization
// completes fully before any item write is issued. The summary is returned
// even when the pass fails partway; already committed chunks stay committed.
func (s *reconcileService) Run(ctx context.Context, scope domain.Scope, feed []domain.FeedBatch) (domain.ReconcileSummary, error) {
	summary := domain.ReconcileSummary{BatchesInFeed: len(feed)}
	if len(feed) == 0 {
		return summary, domain.ErrEmptyFeed
	}

	// Normalize. The ingest rank is the batch's position in the submitted
	// feed, assigned here before anything is sorted or grouped. A batch
	// whose source could not be read is reported and skipped without
	// aborting the run.
	var records []NormalizedRecord
	feedByNumber := make(map[string]domain.FeedBatch)
	batchNumbers := make([]string, 0, len(feed))
	unreadable := make(map[string]struct{})
	for rank, batch := range feed {
		if batch.ReadErr != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("batch %s: %v", batch.BatchNumber, batch.ReadErr))
			unreadable[batch.BatchNumber] = struct{}{}
			continue
		}
		if _, seen := feedByNumber[batch.BatchNumber]; !seen {
			feedByNumber[batch.BatchNumber] = batch
			batchNumbers = append(batchNumbers, batch.BatchNumber)
		}

		normalized, err := normalizeBatch(ctx, scope.TenantID, batch, rank, s.catalog)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("batch %s: %v", batch.BatchNumber, err))
			return summary, err
		}
		records = append(records, normalized...)
	}
	summary.UniqueBatches = len(batchNumbers)
	summary.ItemsProcessed = len(records)

	// Resolve canonical ownership before touching the store.
	canonical, conflictPairs := Canonicalize(records)

	// Drop serials already claimed by a different category. This is a hard
	// exclusion, not a conflict: the other category is authoritative.
	serials := make([]string, 0, len(canonical))
	for _, record := range canonical {
		if record.Serial != "" {
			serials = append(serials, record.Serial)
		}
	}
	claimed, err := s.reconcileRepository.SerialsClaimedOutside(ctx, scope, serials)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, err
	}
	if len(claimed) > 0 {
		claimedSet := make(map[string]struct{}, len(claimed))
		for _, serial := range claimed {
			claimedSet[serial] = struct{}{}
		}

		kept := canonical[:0]
		for _, record := range canonical {
			if _, excluded := claimedSet[record.Serial]; excluded && record.Serial != "" {
				summary.SerialsExcluded++
				continue
			}
			kept = append(kept, record)
		}
		canonical = kept

		keptPairs := conflictPairs[:0]
		for _, pair := range conflictPairs {
			if _, excluded := claimedSet[pair.Serial]; excluded {
				continue
			}
			keptPairs = append(keptPairs, pair)
		}
		conflictPairs = keptPairs
	}

	// Mirror batch metadata from the feed. Human-edited batch fields are
	// never written here.
	batchesByNumber, err := s.upsertBatches(ctx, scope, feedByNumber, batchNumbers, &summary)
	if err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, err
	}

	// Replace the conflicts for every batch touched in this run.
	if err := s.reconcileRepository.DeleteConflicts(ctx, scope, batchNumbers); err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, err
	}
	conflicts := make([]*entities.Conflict, 0, len(conflictPairs))
	for _, pair := range conflictPairs {
		conflicts = append(conflicts, &entities.Conflict{
			ID:                 uuid.New(),
			TenantID:           scope.TenantID,
			Category:           scope.Category,
			SerialNumber:       pair.Serial,
			LosingBatchNumber:  pair.LosingBatch,
			WinningBatchNumber: pair.WinningBatch,
			Status:             "open",
		})
	}
	if err := s.reconcileRepository.CreateConflicts(ctx, conflicts); err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, err
	}
	summary.ConflictsLogged = len(conflicts)

	if err := s.persistCanonical(ctx, scope, canonical, batchesByNumber, unreadable, &summary); err != nil {
		summary.Errors = append(summary.Errors, err.Error())
		return summary, err
	}

	return summary, nil
}

func (s *reconcileService) upsertBatches(ctx context.Context, scope domain.Scope, feedByNumber map[string]domain.FeedBatch, batchNumbers []string, summary *domain.ReconcileSummary) (map[string]*entities.Batch, error) {
	batches := make(map[string]*entities.Batch, len(batchNumbers))
	for _, number := range batchNumbers {
		feedBatch := feedByNumber[number]

		existing, err := s.reconcileRepository.GetBatchByNumber(ctx, scope, number)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		if existing == nil {
			batch := &entities.Batch{
				ID:          uuid.New(),
				TenantID:    scope.TenantID,
				Category:    scope.Category,
				BatchNumber: number,
				Status:      "active",
			}
			applyFeedFields(batch, feedBatch)
			if err := s.reconcileRepository.CreateBatch(ctx, batch); err != nil {
				return nil, err
			}
			batches[number] = batch
			summary.NewBatches++
			continue
		}

		if err := s.reconcileRepository.UpdateBatchFields(ctx, existing.ID, feedFieldMap(feedBatch)); err != nil {
			return nil, err
		}
		batches[number] = existing
		summary.UpdatedBatches++
	}
	return batches, nil
}

// applyFeedFields mirrors the feed's batch metadata onto the entity. These
// fields are not user-editable and are overwritten on every pass.
func applyFeedFields(batch *entities.Batch, feedBatch domain.FeedBatch) {
	batch.FeedStatus = feedBatch.Status
	batch.CSOReference = feedBatch.CSOReference
	batch.Pricing = feedBatch.Pricing
	batch.Units = feedBatch.Units
	batch.FeedNotes = feedBatch.Notes
	if t := parseFeedTime(feedBatch.SubmittedDate); !t.IsZero() {
		batch.SubmittedDate = &t
	}
	if t := parseFeedTime(feedBatch.ScannedAt); !t.IsZero() {
		batch.ScannedAt = &t
	}
}

func feedFieldMap(feedBatch domain.FeedBatch) map[string]interface{} {
	fields := map[string]interface{}{
		"feed_status":   feedBatch.Status,
		"cso_reference": feedBatch.CSOReference,
		"pricing":       feedBatch.Pricing,
		"units":         feedBatch.Units,
		"feed_notes":    feedBatch.Notes,
	}
	if t := parseFeedTime(feedBatch.SubmittedDate); !t.IsZero() {
		fields["submitted_date"] = t
	}
	if t := parseFeedTime(feedBatch.ScannedAt); !t.IsZero() {
		fields["scanned_at"] = t
	}
	return fields
}

// persistCanonical runs the three-way diff between the canonical set and the
// stored items: matched serials update in place (identity preserved), new
// records insert, and stored serials missing from the canonical set are
// orphaned. Serial-less records always insert as independent rows.
func (s *reconcileService) persistCanonical(ctx context.Context, scope domain.Scope, canonical []CanonicalRecord, batchesByNumber map[string]*entities.Batch, unreadable map[string]struct{}, summary *domain.ReconcileSummary) error {
	existing, err := s.reconcileRepository.ListSerialedItems(ctx, scope)
	if err != nil {
		return err
	}

	// Items owned by a batch whose source could not be read this run keep
	// their assignment; an unreadable source says nothing about placement.
	protectedBatchIDs := make(map[uuid.UUID]struct{})
	if len(unreadable) > 0 {
		batches, err := s.reconcileRepository.ListBatches(ctx, scope)
		if err != nil {
			return err
		}
		for _, batch := range batches {
			if _, failed := unreadable[batch.BatchNumber]; failed {
				protectedBatchIDs[batch.ID] = struct{}{}
			}
		}
	}
	existingBySerial := make(map[string]*entities.Item, len(existing))
	for _, item := range existing {
		existingBySerial[item.SerialNumber] = item
	}

	var toInsert []*entities.Item
	var toUpdate []*entities.Item
	var changeLogs []*entities.ItemChangeLog
	seenSerials := make(map[string]struct{})

	for _, record := range canonical {
		batch := batchesByNumber[record.BatchNumber]
		var batchID *uuid.UUID
		if batch != nil {
			batchID = &batch.ID
		}

		if record.Serial == "" {
			toInsert = append(toInsert, newItem(scope, record, batchID))
			continue
		}
		seenSerials[record.Serial] = struct{}{}

		item, found := existingBySerial[record.Serial]
		if !found {
			toInsert = append(toInsert, newItem(scope, record, batchID))
			continue
		}

		reassigned := item.BatchID == nil || (batchID != nil && *item.BatchID != *batchID)
		item.Model = record.Model
		item.Quantity = record.Quantity
		item.ProductID = record.ProductID
		item.ProductType = record.ProductType
		item.OrderRef = record.OrderRef
		item.FeedStatus = record.FeedStatus
		item.UnitPrice = record.UnitPrice
		item.BatchID = batchID
		item.ScanState = "scanned"
		item.OrphanedAt = nil
		toUpdate = append(toUpdate, item)

		if reassigned {
			changeLogs = append(changeLogs, &entities.ItemChangeLog{
				ID:           uuid.New(),
				TenantID:     scope.TenantID,
				Category:     scope.Category,
				ItemID:       &item.ID,
				SerialNumber: item.SerialNumber,
				Action:       "reassigned",
				Detail:       fmt.Sprintf("assigned to batch %s", record.BatchNumber),
			})
		}
	}

	// Physical items do not vanish because a feed stopped reporting them:
	// clear the batch assignment instead of deleting the row.
	var toOrphan []uuid.UUID
	for serial, item := range existingBySerial {
		if _, still := seenSerials[serial]; still {
			continue
		}
		if item.BatchID == nil {
			continue
		}
		if _, protected := protectedBatchIDs[*item.BatchID]; protected {
			continue
		}
		toOrphan = append(toOrphan, item.ID)
		changeLogs = append(changeLogs, &entities.ItemChangeLog{
			ID:           uuid.New(),
			TenantID:     scope.TenantID,
			Category:     scope.Category,
			ItemID:       &item.ID,
			SerialNumber: serial,
			Action:       "orphaned",
			Detail:       "absent from latest feed",
		})
	}

	// Counts are credited per completed phase: a failure mid-phase reports
	// that phase as zero even when earlier chunks committed. Committed chunks
	// stay committed either way.
	if err := s.reconcileRepository.SaveItems(ctx, toUpdate); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReconcileWriteFailed, err)
	}
	summary.ItemsUpdated = len(toUpdate)

	if err := s.reconcileRepository.CreateItems(ctx, toInsert); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReconcileWriteFailed, err)
	}
	summary.ItemsInserted = len(toInsert)

	if len(toOrphan) > 0 {
		if err := s.reconcileRepository.OrphanItems(ctx, toOrphan, time.Now()); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrReconcileWriteFailed, err)
		}
	}
	summary.ItemsOrphaned = len(toOrphan)

	if err := s.reconcileRepository.AppendChangeLogs(ctx, changeLogs); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrReconcileWriteFailed, err)
	}
	return nil
}

func newItem(scope domain.Scope, record CanonicalRecord, batchID *uuid.UUID) *entities.Item {
	return &entities.Item{
		ID:           uuid.New(),
		TenantID:     scope.TenantID,
		Category:     scope.Category,
		SerialNumber: record.Serial,
		Model:        record.Model,
		Quantity:     record.Quantity,
		ProductID:    record.ProductID,
		ProductType:  record.ProductType,
		BatchID:      batchID,
		ScanState:    "scanned",
		OrderRef:     record.OrderRef,
		FeedStatus:   record.FeedStatus,
		UnitPrice:    record.UnitPrice,
	}
}

// batchSnapshot holds the human-edited batch fields preserved across a
// destructive resync, keyed by batch number.
type batchSnapshot struct {
	DisplayName     string
	Notes           string
	ColorTag        string
	SubCategory     string
	PrepStarted     bool
	ReviewRequested bool
}

// Resync wipes the whole category and rebuilds it from the feed. When
// preserveMetadata is set, human-edited batch fields are snapshotted by
// batch number before the wipe and re-applied to batches that reappear.
// Restoration is best-effort: snapshots for batch numbers missing from the
// new feed are dropped silently.
func (s *reconcileService) Resync(ctx context.Context, scope domain.Scope, feed []domain.FeedBatch, preserveMetadata bool) (domain.ReconcileSummary, error) {
	var snapshots map[string]batchSnapshot
	if preserveMetadata {
		batches, err := s.reconcileRepository.ListBatches(ctx, scope)
		if err != nil {
			return domain.ReconcileSummary{}, err
		}
		snapshots = make(map[string]batchSnapshot, len(batches))
		for _, batch := range batches {
			snapshots[batch.BatchNumber] = batchSnapshot{
				DisplayName:     batch.DisplayName,
				Notes:           batch.Notes,
				ColorTag:        batch.ColorTag,
				SubCategory:     batch.SubCategory,
				PrepStarted:     batch.PrepStarted,
				ReviewRequested: batch.ReviewRequested,
			}
		}
	}

	if err := s.reconcileRepository.DeleteCategoryData(ctx, scope); err != nil {
		return domain.ReconcileSummary{}, err
	}

	summary, runErr := s.Run(ctx, scope, feed)

	if preserveMetadata {
		if err := s.restoreSnapshots(ctx, scope, snapshots); err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			if runErr == nil {
				runErr = err
			}
		}
	}

	return summary, runErr
}

func (s *reconcileService) restoreSnapshots(ctx context.Context, scope domain.Scope, snapshots map[string]batchSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	batches, err := s.reconcileRepository.ListBatches(ctx, scope)
	if err != nil {
		return err
	}

	for _, batch := range batches {
		snapshot, held := snapshots[batch.BatchNumber]
		if !held {
			continue
		}

		// Only re-apply fields the user actually customized; untouched
		// fields keep whatever the fresh reload produced.
		fields := make(map[string]interface{})
		if snapshot.DisplayName != "" {
			fields["display_name"] = snapshot.DisplayName
		}
		if snapshot.Notes != "" {
			fields["notes"] = snapshot.Notes
		}
		if snapshot.ColorTag != "" {
			fields["color_tag"] = snapshot.ColorTag
		}
		if snapshot.SubCategory != "" {
			fields["sub_category"] = snapshot.SubCategory
		}
		if snapshot.PrepStarted {
			fields["prep_started"] = true
		}
		if snapshot.ReviewRequested {
			fields["review_requested"] = true
		}
		if len(fields) == 0 {
			continue
		}

		if err := s.reconcileRepository.UpdateBatchFields(ctx, batch.ID, fields); err != nil {
			return err
		}
	}
	return nil
}

// MergeBatches consolidates the source batches into the target. Conflicts
// referencing a merged source stay in place until the next reconciliation
// pass replaces them.
func (s *reconcileService) MergeBatches(ctx context.Context, scope domain.Scope, req domain.MergeBatchesRequest) error {
	sources := make([]string, 0, len(req.Sources))
	seen := make(map[string]struct{}, len(req.Sources))
	for _, source := range req.Sources {
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}
		sources = append(sources, source)
	}

	if len(sources) < 2 {
		return domain.ErrMergeNeedsSources
	}
	for _, source := range sources {
		if source == req.Target {
			return domain.ErrTargetIsSource
		}
	}

	if err := s.reconcileRepository.MergeBatches(ctx, scope, sources, req.Target, req.CreateTarget); err != nil {
		return err
	}

	logs := make([]*entities.ItemChangeLog, 0, len(sources))
	for _, source := range sources {
		logs = append(logs, &entities.ItemChangeLog{
			ID:       uuid.New(),
			TenantID: scope.TenantID,
			Category: scope.Category,
			Action:   "reassigned",
			Detail:   fmt.Sprintf("batch %s merged into %s", source, req.Target),
		})
	}
	return s.reconcileRepository.AppendChangeLogs(ctx, logs)
}

func (s *reconcileService) GetConflicts(ctx context.Context, scope domain.Scope, status string) ([]domain.ConflictResponse, error) {
	conflicts, err := s.reconcileRepository.ListConflicts(ctx, scope, status)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ConflictResponse, 0, len(conflicts))
	for _, conflict := range conflicts {
		response = append(response, domain.ConflictResponse{
			ID:                 conflict.ID.String(),
			Category:           conflict.Category,
			SerialNumber:       conflict.SerialNumber,
			LosingBatchNumber:  conflict.LosingBatchNumber,
			WinningBatchNumber: conflict.WinningBatchNumber,
			Status:             conflict.Status,
			CreatedAt:          conflict.CreatedAt,
		})
	}
	return response, nil
}

func (s *reconcileService) ResolveConflict(ctx context.Context, scope domain.Scope, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrParseUUID
	}
	if err := s.reconcileRepository.ResolveConflict(ctx, scope, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrConflictNotFound
		}
		return err
	}
	return nil
}
