package dto

import (
	"time"

	domainLedger "github.com/NexaRift25/tilbod-admin-company-sub001/internal/domain/ledger"
	"github.com/NexaRift25/tilbod-admin-company-sub001/internal/types"
	"github.com/shopspring/decimal"
)

// CommissionReportRequest filters the ledger report by window and offer type
type CommissionReportRequest struct {
	From      *time.Time       `json:"from,omitempty" form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To        *time.Time       `json:"to,omitempty" form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	OfferType *types.OfferType `json:"offer_type,omitempty" form:"offer_type"`
	Limit     *int             `json:"limit,omitempty" form:"limit"`
	Offset    *int             `json:"offset,omitempty" form:"offset"`
}

// ToFilter converts the request to a ledger filter, falling back to default
// pagination when none is given
func (r *CommissionReportRequest) ToFilter() *domainLedger.EntryFilter {
	filter := domainLedger.NewEntryFilter()
	filter.From = r.From
	filter.To = r.To
	filter.OfferType = r.OfferType
	if r.Limit != nil {
		filter.Limit = r.Limit
	}
	if r.Offset != nil {
		filter.Offset = r.Offset
	}
	return filter
}

// AggregateResponse is one report row grouped by offer type
type AggregateResponse struct {
	OfferType   types.OfferType `json:"offer_type"`
	EntryCount  int             `json:"entry_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// CommissionReportResponse summarizes final ledger entries per offer type
type CommissionReportResponse struct {
	From       *time.Time           `json:"from,omitempty"`
	To         *time.Time           `json:"to,omitempty"`
	Rows       []*AggregateResponse `json:"rows"`
	GrandTotal decimal.Decimal      `json:"grand_total"`
}

// NewCommissionReportResponse converts aggregates to a report
func NewCommissionReportResponse(from, to *time.Time, aggregates []*domainLedger.Aggregate) *CommissionReportResponse {
	resp := &CommissionReportResponse{
		From:       from,
		To:         to,
		Rows:       make([]*AggregateResponse, 0, len(aggregates)),
		GrandTotal: decimal.Zero,
	}
	for _, agg := range aggregates {
		resp.Rows = append(resp.Rows, &AggregateResponse{
			OfferType:   agg.OfferType,
			EntryCount:  agg.EntryCount,
			TotalAmount: agg.TotalAmount,
		})
		resp.GrandTotal = resp.GrandTotal.Add(agg.TotalAmount)
	}
	return resp
}

// CommissionEntryCSVRow is one ledger entry in CSV exports
type CommissionEntryCSVRow struct {
	EntryID        string `csv:"entry_id"`
	OfferID        string `csv:"offer_id"`
	SaleRef        string `csv:"sale_ref"`
	OfferType      string `csv:"offer_type"`
	RuleID         string `csv:"rule_id"`
	BillableUnits  string `csv:"billable_units"`
	ComputedAmount string `csv:"computed_amount"`
	ComputedAt     string `csv:"computed_at"`
}

// NewCommissionEntryCSVRows converts ledger entries to CSV rows
func NewCommissionEntryCSVRows(entries []*domainLedger.CommissionEntry) []*CommissionEntryCSVRow {
	rows := make([]*CommissionEntryCSVRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &CommissionEntryCSVRow{
			EntryID:        e.ID,
			OfferID:        e.OfferID,
			SaleRef:        e.SaleRef,
			OfferType:      string(e.OfferType),
			RuleID:         e.RuleID,
			BillableUnits:  e.BillableUnits.String(),
			ComputedAmount: e.ComputedAmount.String(),
			ComputedAt:     e.ComputedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows
}
