package service

import (
	"context"
	"fmt"
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"
	"sproutplan/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// NotifyQueue enqueues an ops notification after a terminal decision.
type NotifyQueue interface {
	EnqueueNotification(ctx context.Context, subject, body string) error
}

// ApprovalService is the suggestion lifecycle state machine:
// PROPOSED → APPROVED | REJECTED, both terminal, both single-shot.
// Approval provisions exactly one downstream production lot from the oldest
// seed batch with remaining stock and commits the trays against capacity.
type ApprovalService interface {
	Approve(ctx context.Context, suggestionID, actorID uuid.UUID, req dto.ApproveSuggestionRequest) (*dto.SuggestionResponse, error)
	Reject(ctx context.Context, suggestionID, actorID uuid.UUID, req dto.RejectSuggestionRequest) (*dto.SuggestionResponse, error)
}

type approvalService struct {
	suggestions  repository.SuggestionRepository
	products     repository.ProductRepository
	seedBatches  repository.SeedBatchRepository
	lots         repository.LotRepository
	capacity     repository.CapacityRepository
	capacityKind string
	notify       NotifyQueue
}

func NewApprovalService(
	suggestions repository.SuggestionRepository,
	products repository.ProductRepository,
	seedBatches repository.SeedBatchRepository,
	lots repository.LotRepository,
	capacity repository.CapacityRepository,
	capacityKind string,
	notify NotifyQueue,
) ApprovalService {
	return &approvalService{
		suggestions:  suggestions,
		products:     products,
		seedBatches:  seedBatches,
		lots:         lots,
		capacity:     capacity,
		capacityKind: capacityKind,
		notify:       notify,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *approvalService) Approve(ctx context.Context, suggestionID, actorID uuid.UUID, req dto.ApproveSuggestionRequest) (*dto.SuggestionResponse, error) {
	var approved *model.ProductionSuggestion

	txErr := runTx(ctx, s.suggestions.DB(), func(tx *gorm.DB) error {
		sug, err := s.suggestions.FindForUpdateTx(tx, suggestionID)
		if err != nil {
			return fmt.Errorf("%w: suggestion %s", ErrNotFound, suggestionID)
		}
		if sug.Status != model.SuggestionProposed {
			return fmt.Errorf("%w: suggestion is %s", ErrInvalidState, sug.Status)
		}

		if req.OverrideTrays != nil {
			sug.RecommendedTrays = *req.OverrideTrays
			// Keep the expected yield consistent with the operator's count.
			if product, err := s.products.FindByID(ctx, sug.ProductID); err == nil {
				sug.ExpectedYieldQuantity = effectiveYieldPerTray(product).
					Mul(decimalFromInt(sug.RecommendedTrays)).Round(2)
			}
		}

		// FIFO: oldest batch with remaining stock. Approval without seed
		// stock must fail loudly rather than fabricate a lot.
		batch, err := s.seedBatches.FindOldestWithStockTx(tx, sug.ProductID)
		if err != nil {
			return fmt.Errorf("%w: no seed batch with remaining stock for product %s", ErrNotFound, sug.ProductID)
		}

		lot := &model.ProductionLot{
			ID:                  uuid.New(),
			SuggestionID:        sug.ID,
			ProductID:           sug.ProductID,
			SeedBatchID:         batch.ID,
			Trays:               sug.RecommendedTrays,
			SowDate:             sug.SowDate,
			ExpectedHarvestDate: sug.ExpectedHarvestDate,
			Status:              "planned",
		}
		if err := s.lots.CreateTx(tx, lot); err != nil {
			return fmt.Errorf("provision lot: %w", err)
		}

		if err := s.capacity.CommitTraysTx(tx, s.capacityKind, sug.RecommendedTrays); err != nil {
			return fmt.Errorf("commit capacity: %w", err)
		}

		now := time.Now()
		sug.Status = model.SuggestionApproved
		sug.ApprovedBy = &actorID
		sug.ApprovedAt = &now
		sug.GeneratedLotID = &lot.ID
		if err := s.suggestions.UpdateTx(tx, sug); err != nil {
			return fmt.Errorf("update suggestion: %w", err)
		}

		approved = sug
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyDecision(ctx, "production suggestion approved",
		fmt.Sprintf("suggestion %s approved: %d trays, sow %s, lot %s",
			approved.ID, approved.RecommendedTrays, approved.SowDate.Format(dateLayout), *approved.GeneratedLotID))

	resp := suggestionToResponse(approved)
	return &resp, nil
}

func (s *approvalService) Reject(ctx context.Context, suggestionID, actorID uuid.UUID, req dto.RejectSuggestionRequest) (*dto.SuggestionResponse, error) {
	if req.Reason == "" {
		return nil, newValidationError("reason", "must not be empty")
	}

	var rejected *model.ProductionSuggestion

	txErr := runTx(ctx, s.suggestions.DB(), func(tx *gorm.DB) error {
		sug, err := s.suggestions.FindForUpdateTx(tx, suggestionID)
		if err != nil {
			return fmt.Errorf("%w: suggestion %s", ErrNotFound, suggestionID)
		}
		if sug.Status != model.SuggestionProposed {
			return fmt.Errorf("%w: suggestion is %s", ErrInvalidState, sug.Status)
		}

		now := time.Now()
		sug.Status = model.SuggestionRejected
		sug.RejectedBy = &actorID
		sug.RejectedAt = &now
		sug.RejectionReason = &req.Reason
		if err := s.suggestions.UpdateTx(tx, sug); err != nil {
			return fmt.Errorf("update suggestion: %w", err)
		}

		rejected = sug
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.notifyDecision(ctx, "production suggestion rejected",
		fmt.Sprintf("suggestion %s rejected: %s", rejected.ID, req.Reason))

	resp := suggestionToResponse(rejected)
	return &resp, nil
}

func (s *approvalService) notifyDecision(ctx context.Context, subject, body string) {
	if s.notify == nil {
		return
	}
	if err := s.notify.EnqueueNotification(ctx, subject, body); err != nil {
		log.Error().Err(err).Str("subject", subject).
			Msg("approval: failed to enqueue notification")
	}
}
