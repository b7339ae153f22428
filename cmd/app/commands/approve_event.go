package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	issuanceUseCase "github.com/allisson/certify/internal/issuance/usecase"
)

type approveEventOutput struct {
	ReferenceID          string `json:"reference_id"`
	OrganizerReferenceID string `json:"organizer_reference_id"`
	Title                string `json:"title"`
	EventDate            string `json:"event_date"`
	Approved             bool   `json:"approved"`
}

// RunApproveEvent marks an event as approved so ORGANIZER certificates can reference it.
// Approving an already approved event succeeds again.
func RunApproveEvent(
	ctx context.Context,
	eventUseCase issuanceUseCase.EventUseCase,
	logger *slog.Logger,
	writer io.Writer,
	referenceID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("approving event", slog.String("reference_id", referenceID))

	if err := eventUseCase.Approve(ctx, referenceID); err != nil {
		return fmt.Errorf("failed to approve event: %w", err)
	}

	event, err := eventUseCase.Get(ctx, referenceID)
	if err != nil {
		return fmt.Errorf("failed to load approved event: %w", err)
	}

	logger.Info("event approved", slog.String("reference_id", event.ReferenceID))

	if format == "json" {
		return writeJSON(writer, approveEventOutput{
			ReferenceID:          event.ReferenceID,
			OrganizerReferenceID: event.OrganizerReferenceID,
			Title:                event.Title,
			EventDate:            event.EventDate.Format(time.DateOnly),
			Approved:             event.Approved,
		})
	}

	_, _ = fmt.Fprintf(writer, "Event %s approved\n", event.ReferenceID)
	_, _ = fmt.Fprintf(writer, "Title: %s\n", event.Title)
	_, _ = fmt.Fprintf(writer, "Organizer: %s\n", event.OrganizerReferenceID)
	_, _ = fmt.Fprintf(writer, "Date: %s\n", event.EventDate.Format(time.DateOnly))
	return nil
}
