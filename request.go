// Package procure manages procurement requests in memory: creation from
// validated data, derived totals and status changes with their history.
//
// Amounts are computed by the rules package. Persistence, authorization and
// transport are left to the caller.
package procure

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paularlott/procure/rules"
	"github.com/shopspring/decimal"
)

// Draft is the data submitted to create a request.
type Draft struct {
	Title          string            `json:"title"`
	VendorName     string            `json:"vendor_name"`
	VATID          string            `json:"vat_id"`
	Department     string            `json:"department"`
	CommodityGroup string            `json:"commodity_group,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Lines          []rules.OrderLine `json:"order_lines"`
}

// Line is a stored order line with its derived total.
type Line struct {
	ID uuid.UUID `json:"id"`
	rules.OrderLine
	TotalPrice decimal.Decimal `json:"total_price"`
}

// StatusChange records one entry of a request's status history. From is empty
// for the entry written at creation.
type StatusChange struct {
	From      rules.Status `json:"from,omitempty"`
	To        rules.Status `json:"to"`
	ChangedBy uuid.UUID    `json:"changed_by"`
	Notes     string       `json:"notes,omitempty"`
	ChangedAt time.Time    `json:"changed_at"`
}

type Request struct {
	ID             uuid.UUID       `json:"id"`
	RequestorID    uuid.UUID       `json:"requestor_id"`
	Title          string          `json:"title"`
	VendorName     string          `json:"vendor_name"`
	VATID          string          `json:"vat_id"`
	Department     string          `json:"department"`
	CommodityGroup string          `json:"commodity_group,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Lines          []Line          `json:"order_lines"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	Status         rules.Status    `json:"status"`
	History        []StatusChange  `json:"status_history"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewRequest validates d and creates an open request owned by requestor. On
// failure the error is a *ValidationError listing every problem.
func NewRequest(requestor uuid.UUID, d Draft) (*Request, error) {
	var errs []string
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, "Title is required")
	}
	if strings.TrimSpace(d.VendorName) == "" {
		errs = append(errs, "Vendor name is required")
	}
	if strings.TrimSpace(d.Department) == "" {
		errs = append(errs, "Department is required")
	}
	if ok, dataErrs := rules.ValidateRequestData(d.VATID, d.Lines); !ok {
		errs = append(errs, dataErrs...)
	}
	if len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	now := time.Now().UTC()
	r := &Request{
		ID:             uuid.New(),
		RequestorID:    requestor,
		Title:          strings.TrimSpace(d.Title),
		VendorName:     strings.TrimSpace(d.VendorName),
		VATID:          rules.NormalizeVATID(d.VATID),
		Department:     strings.TrimSpace(d.Department),
		CommodityGroup: d.CommodityGroup,
		Notes:          d.Notes,
		Status:         rules.StatusOpen,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.setLines(d.Lines)
	r.History = []StatusChange{{
		To:        rules.StatusOpen,
		ChangedBy: requestor,
		Notes:     "Request created",
		ChangedAt: now,
	}}

	return r, nil
}

func (r *Request) setLines(lines []rules.OrderLine) {
	r.Lines = make([]Line, len(lines))
	for i, l := range lines {
		l.LineType = l.Type()
		l.Unit = l.UnitOrDefault()
		r.Lines[i] = Line{
			ID:         uuid.New(),
			OrderLine:  l,
			TotalPrice: l.Total(),
		}
	}
	r.TotalCost = rules.RequestTotal(lines)
}

// OrderLines returns the request's lines without their stored fields.
func (r *Request) OrderLines() []rules.OrderLine {
	lines := make([]rules.OrderLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = l.OrderLine
	}
	return lines
}

// ReplaceLines swaps in a new set of order lines and recomputes the totals.
func (r *Request) ReplaceLines(lines []rules.OrderLine) error {
	if r.Status == rules.StatusClosed {
		return ErrClosed
	}
	if ok, errs := rules.ValidateOrderLines(lines); !ok {
		return newValidationError(errs)
	}

	r.setLines(lines)
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Transition moves the request to status to and records who did it. The
// request is left unchanged when the move is not allowed.
func (r *Request) Transition(to rules.Status, by uuid.UUID, notes string) error {
	if ok, msg := rules.ValidateStatusTransition(r.Status, to); !ok {
		return &TransitionError{From: r.Status, To: to, Message: msg}
	}

	if notes == "" {
		notes = "Status changed from " + string(r.Status) + " to " + string(to)
	}

	now := time.Now().UTC()
	r.History = append(r.History, StatusChange{
		From:      r.Status,
		To:        to,
		ChangedBy: by,
		Notes:     notes,
		ChangedAt: now,
	})
	r.Status = to
	r.UpdatedAt = now
	return nil
}

// CheckTotal compares an externally stated total with the stored lines.
func (r *Request) CheckTotal(provided, tolerance decimal.Decimal) (bool, string) {
	return rules.ValidateRequestTotal(r.OrderLines(), provided, tolerance)
}
