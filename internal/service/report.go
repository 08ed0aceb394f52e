package service

import (
	"context"

	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/api/dto"
	ierr "github.com/NexaRift25/tilbod-admin-company-sub001/internal/errors"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/gocarina/gocsv"
)

// ReportService aggregates and exports the finalized commission ledger.
// Every number comes from stored entries; rates are never re-applied.
type ReportService interface {
	GetCommissionReport(ctx context.Context, req *dto.CommissionReportRequest) (*dto.CommissionReportResponse, error)
	ListFinalEntries(ctx context.Context, req *dto.CommissionReportRequest) (*dto.ListCommissionEntriesResponse, error)
	ExportCommissionCSV(ctx context.Context, req *dto.CommissionReportRequest) ([]byte, error)
}

type reportService struct {
	ServiceParams
}

// NewReportService creates a ledger reporting service
func NewReportService(params ServiceParams) ReportService {
	return &reportService{ServiceParams: params}
}

func (s *reportService) GetCommissionReport(ctx context.Context, req *dto.CommissionReportRequest) (*dto.CommissionReportResponse, error) {
	filter := req.ToFilter()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	aggregates, err := s.LedgerRepo.AggregateFinal(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewCommissionReportResponse(req.From, req.To, aggregates), nil
}

func (s *reportService) ListFinalEntries(ctx context.Context, req *dto.CommissionReportRequest) (*dto.ListCommissionEntriesResponse, error) {
	filter := req.ToFilter()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.LedgerRepo.ListFinal(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CommissionEntryResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, dto.NewCommissionEntryResponse(e))
	}
	resp := types.NewListResponse(items, len(items), filter.GetLimit(), filter.GetOffset())
	return &resp, nil
}

// ExportCommissionCSV renders the filtered final entries as CSV for
// accounting handoff
func (s *reportService) ExportCommissionCSV(ctx context.Context, req *dto.CommissionReportRequest) ([]byte, error) {
	filter := req.ToFilter()
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.LedgerRepo.ListFinal(ctx, filter)
	if err != nil {
		return nil, err
	}

	rows := dto.NewCommissionEntryCSVRows(entries)
	data, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render commission entries as CSV").
			Mark(ierr.ErrInternal)
	}

	return data, nil
}
