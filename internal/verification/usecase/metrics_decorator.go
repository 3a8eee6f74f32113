package usecase

import (
	"context"
	"time"

	cryptoDomain "github.com/idshield/verification/internal/crypto/domain"
	"github.com/idshield/verification/internal/metrics"
	"github.com/idshield/verification/internal/verification/domain"
)

// verificationUseCaseWithMetrics decorates VerificationUseCase with metrics instrumentation.
type verificationUseCaseWithMetrics struct {
	next    VerificationUseCase
	metrics metrics.BusinessMetrics
}

// NewVerificationUseCaseWithMetrics wraps a VerificationUseCase with metrics recording.
func NewVerificationUseCaseWithMetrics(
	useCase VerificationUseCase,
	m metrics.BusinessMetrics,
) VerificationUseCase {
	return &verificationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Ingest records metrics for record ingestion operations.
func (v *verificationUseCaseWithMetrics) Ingest(
	ctx context.Context,
	envelope *cryptoDomain.EncryptedEnvelope,
) (*domain.Record, error) {
	start := time.Now()
	record, err := v.next.Ingest(ctx, envelope)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "verification", "ingest", status)
	v.metrics.RecordDuration(ctx, "verification", "ingest", time.Since(start), status)

	return record, err
}

// Search records metrics for record search operations.
func (v *verificationUseCaseWithMetrics) Search(
	ctx context.Context,
	nationalID string,
) (*SearchResult, error) {
	start := time.Now()
	result, err := v.next.Search(ctx, nationalID)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "verification", "search", status)
	v.metrics.RecordDuration(ctx, "verification", "search", time.Since(start), status)

	return result, err
}

// List records metrics for record listing operations.
func (v *verificationUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
) ([]*domain.Record, error) {
	start := time.Now()
	records, err := v.next.List(ctx, offset, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "verification", "list_records", status)
	v.metrics.RecordDuration(ctx, "verification", "list_records", time.Since(start), status)

	return records, err
}

// PublicKeyPEM passes through without metrics; it performs no I/O.
func (v *verificationUseCaseWithMetrics) PublicKeyPEM() (string, error) {
	return v.next.PublicKeyPEM()
}
