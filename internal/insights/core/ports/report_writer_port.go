package ports

import (
	"context"

	"clickstream-insights/internal/insights/core/domain"
)

type ReportWriterPort interface {
	WriteReport(ctx context.Context, report *domain.Report, summary []domain.SummaryRow) error
}
