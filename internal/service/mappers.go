package service

import (
	"time"

	"sproutplan/internal/dto"
	"sproutplan/internal/model"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

func fmtDate(t time.Time) string { return t.Format(dateLayout) }

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func fmtTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func forecastToResponse(f *model.Forecast) dto.ForecastResponse {
	return dto.ForecastResponse{
		ID:                  f.ID.String(),
		ProductID:           f.ProductID.String(),
		CustomerID:          uuidPtrToString(f.CustomerID),
		TargetDate:          fmtDate(f.TargetDate),
		HorizonDays:         f.HorizonDays,
		AutomaticQuantity:   f.AutomaticQuantity,
		ConfidenceLower:     f.ConfidenceLower,
		ConfidenceUpper:     f.ConfidenceUpper,
		Strategy:            f.Strategy,
		EffectiveQuantity:   f.EffectiveQuantity,
		HasManualAdjustment: f.HasManualAdjustment,
		FromHistory:         f.FromHistory,
		FromSubscriptions:   f.FromSubscriptions,
		FromSeasonality:     f.FromSeasonality,
		CreatedAt:           f.CreatedAt.Format(time.RFC3339),
	}
}

func adjustmentToResponse(a *model.ManualAdjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:           a.ID.String(),
		ForecastID:   a.ForecastID.String(),
		Kind:         a.Kind,
		Value:        a.Value,
		Reason:       a.Reason,
		ValidFrom:    fmtDatePtr(a.ValidFrom),
		ValidUntil:   fmtDatePtr(a.ValidUntil),
		IsActive:     a.IsActive,
		CreatedBy:    a.CreatedBy.String(),
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
		RevertedAt:   fmtTimePtr(a.RevertedAt),
		RevertedBy:   uuidPtrToString(a.RevertedBy),
		RevertReason: a.RevertReason,
	}
}

func suggestionToResponse(s *model.ProductionSuggestion) dto.SuggestionResponse {
	warnings := make([]dto.WarningResponse, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		warnings = append(warnings, dto.WarningResponse{Kind: w.Kind, Message: w.Message})
	}
	return dto.SuggestionResponse{
		ID:                    s.ID.String(),
		ForecastID:            s.ForecastID.String(),
		ProductID:             s.ProductID.String(),
		RecommendedTrays:      s.RecommendedTrays,
		SowDate:               fmtDate(s.SowDate),
		ExpectedHarvestDate:   fmtDate(s.ExpectedHarvestDate),
		RequiredQuantity:      s.RequiredQuantity,
		ExpectedYieldQuantity: s.ExpectedYieldQuantity,
		Status:                s.Status,
		Warnings:              warnings,
		ApprovedBy:            uuidPtrToString(s.ApprovedBy),
		ApprovedAt:            fmtTimePtr(s.ApprovedAt),
		RejectedBy:            uuidPtrToString(s.RejectedBy),
		RejectedAt:            fmtTimePtr(s.RejectedAt),
		RejectionReason:       s.RejectionReason,
		GeneratedLotID:        uuidPtrToString(s.GeneratedLotID),
		CreatedAt:             s.CreatedAt.Format(time.RFC3339),
	}
}

func accuracyToResponse(a *model.ForecastAccuracy) dto.AccuracyResponse {
	return dto.AccuracyResponse{
		ID:               a.ID.String(),
		ForecastID:       a.ForecastID.String(),
		ProductID:        a.ProductID.String(),
		TargetDate:       fmtDate(a.TargetDate),
		ActualQuantity:   a.ActualQuantity,
		AbsDeviation:     a.AbsDeviation,
		PctDeviation:     a.PctDeviation,
		MAPE:             a.MAPE,
		AutoAbsDeviation: a.AutoAbsDeviation,
		AutoPctDeviation: a.AutoPctDeviation,
		AutoMAPE:         a.AutoMAPE,
		EvaluatedAt:      a.EvaluatedAt.Format(time.RFC3339),
	}
}
