// Package offer turns a model's structured reading of a vendor offer into
// typed order lines and checks its figures against the calculation rules.
//
// The reply is expected as a TOON document, or as JSON when the caller falls
// back to it:
//
//	vendor_name:Dell|vat_id:DE123456789|order_lines:[{description:Laptop|unit_price_net:999.99|amount:2|line_total_net:1999.98}]
package offer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/paularlott/procure"
	"github.com/paularlott/procure/rules"
	"github.com/paularlott/procure/toon"
	"github.com/shopspring/decimal"
)

var (
	ErrNoLines       = errors.New("offer: no valid order lines could be extracted")
	ErrUnknownFormat = errors.New("offer: unknown format")
)

const (
	DefaultVendorName = "Unknown Vendor"
	DefaultCurrency   = "EUR"
)

// DefaultTaxRate is the German standard VAT rate in percent.
var DefaultTaxRate = decimal.NewFromInt(19)

// Format is the encoding of a model reply.
type Format string

const (
	FormatTOON Format = "toon"
	FormatJSON Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTOON, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Line is an extracted order line together with the total the vendor stated.
type Line struct {
	rules.OrderLine
	LineTotalNet *decimal.Decimal `json:"line_total_net,omitempty"`
}

type Offer struct {
	VendorName        string           `json:"vendor_name"`
	VATID             string           `json:"vat_id,omitempty"`
	OfferDate         string           `json:"offer_date,omitempty"`
	OfferNumber       string           `json:"offer_number,omitempty"`
	Currency          string           `json:"currency"`
	Lines             []Line           `json:"order_lines"`
	SubtotalNet       *decimal.Decimal `json:"subtotal_net,omitempty"`
	DiscountTotal     *decimal.Decimal `json:"discount_total,omitempty"`
	DeliveryCostNet   *decimal.Decimal `json:"delivery_cost_net,omitempty"`
	DeliveryTaxAmount *decimal.Decimal `json:"delivery_tax_amount,omitempty"`
	TaxRate           decimal.Decimal  `json:"tax_rate"`
	TaxAmount         *decimal.Decimal `json:"tax_amount,omitempty"`
	TotalGross        *decimal.Decimal `json:"total_gross,omitempty"`
	PaymentTerms      string           `json:"payment_terms,omitempty"`
	DeliveryTerms     string           `json:"delivery_terms,omitempty"`
	ValidityPeriod    string           `json:"validity_period,omitempty"`
	WarrantyTerms     string           `json:"warranty_terms,omitempty"`
	OtherTerms        string           `json:"other_terms,omitempty"`
}

// Decode parses a model reply in the given format and converts it. Code
// fences around the reply are ignored. TOON replies are decoded leniently so
// a stray sentence without a key is skipped; structural errors still fail
// and match toon.ErrSyntax.
func Decode(text string, f Format) (*Offer, error) {
	text = StripCodeFence(text)

	var (
		v   toon.Value
		err error
	)
	switch f {
	case FormatTOON:
		v, err = toon.DecodeWithOptions(text, &toon.DecodeOptions{Strict: false})
		if err != nil {
			return nil, fmt.Errorf("offer: invalid TOON format: %w", err)
		}
	case FormatJSON:
		v, err = toon.FromJSON([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("offer: invalid JSON format: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}

	return FromValue(v)
}

// FromValue converts a decoded reply. Lines that cannot be read are skipped;
// if none remain ErrNoLines is returned.
func FromValue(v toon.Value) (*Offer, error) {
	data, ok := v.(*toon.Object)
	if !ok {
		return nil, fmt.Errorf("offer: expected an object, got %s", toon.KindOf(v))
	}

	o := &Offer{
		VendorName:     DefaultVendorName,
		VATID:          textField(data, "vat_id", ""),
		OfferDate:      textField(data, "offer_date", ""),
		OfferNumber:    textField(data, "offer_number", ""),
		Currency:       textField(data, "currency", DefaultCurrency),
		TaxRate:        DefaultTaxRate,
		PaymentTerms:   textField(data, "payment_terms", ""),
		DeliveryTerms:  textField(data, "delivery_terms", ""),
		ValidityPeriod: textField(data, "validity_period", ""),
		WarrantyTerms:  textField(data, "warranty_terms", ""),
		OtherTerms:     textField(data, "other_terms", ""),
	}
	if name, ok := first(data, "vendor_name"); ok {
		o.VendorName = text(name)
	}

	raw, _ := data.Array("order_lines")
	for _, item := range raw {
		lineData, ok := item.(*toon.Object)
		if !ok {
			continue
		}
		if line, ok := lineFromObject(lineData); ok {
			o.Lines = append(o.Lines, line)
		}
	}
	if len(o.Lines) == 0 {
		return nil, ErrNoLines
	}

	o.SubtotalNet = decimalField(data, "subtotal_net")
	o.DiscountTotal = decimalField(data, "discount_total")
	o.DeliveryCostNet = decimalField(data, "delivery_cost_net")
	o.DeliveryTaxAmount = decimalField(data, "delivery_tax_amount")
	o.TaxAmount = decimalField(data, "tax_amount")
	o.TotalGross = parseDecimalPtr(first(data, "total_gross", "total_amount"))
	if rate := decimalField(data, "tax_rate"); rate != nil {
		o.TaxRate = *rate
	}

	return o, nil
}

func decimalField(o *toon.Object, key string) *decimal.Decimal {
	return parseDecimalPtr(o.Get(key))
}

func lineFromObject(data *toon.Object) (Line, bool) {
	amount := decimal.NewFromInt(1)
	if v, ok := first(data, "amount", "quantity"); ok {
		if d, ok := ParseDecimal(v); ok {
			amount = d
		}
	}

	price := decimal.Zero
	if v, ok := first(data, "unit_price_net", "unit_price", "price"); ok {
		if d, ok := ParseDecimal(v); ok {
			price = d
		}
	}

	lineType := rules.LineType(textField(data, "line_type", string(rules.LineStandard)))
	if !lineType.Valid() {
		lineType = rules.LineStandard
	}

	description := "Unknown item"
	if v, ok := data.Get("description"); ok {
		description = text(v)
	}

	line := Line{
		OrderLine: rules.OrderLine{
			LineType:            lineType,
			Description:         description,
			DetailedDescription: textField(data, "detailed_description", ""),
			UnitPrice:           price,
			Amount:              amount,
			Unit:                textField(data, "unit", rules.DefaultUnit),
			DiscountPercent:     decimalField(data, "discount_percent"),
			DiscountAmount:      decimalField(data, "discount_amount"),
		},
		LineTotalNet: parseDecimalPtr(first(data, "line_total_net", "total_price")),
	}

	// Only the structural constraints reject a line here; a blank
	// description is reported later by validation.
	l := line.OrderLine
	if !l.Amount.IsPositive() || l.UnitPrice.IsNegative() {
		return Line{}, false
	}
	if p := l.DiscountPercent; p != nil && (p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100))) {
		return Line{}, false
	}
	if a := l.DiscountAmount; a != nil && a.IsNegative() {
		return Line{}, false
	}

	return line, true
}

// OrderLines returns the offer's lines without the stated totals.
func (o *Offer) OrderLines() []rules.OrderLine {
	lines := make([]rules.OrderLine, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = l.OrderLine
	}
	return lines
}

// Check compares the vendor's stated figures with the computed ones and
// returns a message for every disagreement.
func (o *Offer) Check(tolerance decimal.Decimal) []string {
	var msgs []string

	for i, l := range o.Lines {
		if l.LineTotalNet == nil {
			continue
		}
		computed := l.Total()
		if computed.Sub(*l.LineTotalNet).Abs().GreaterThan(tolerance) {
			msgs = append(msgs, fmt.Sprintf("Order line %d: Total mismatch: expected %s, got %s", i+1, computed.StringFixed(2), l.LineTotalNet))
		}
	}

	if o.SubtotalNet != nil {
		if ok, msg := rules.ValidateRequestTotal(o.OrderLines(), *o.SubtotalNet, tolerance); !ok {
			msgs = append(msgs, msg)
		}
	}

	if o.VATID != "" {
		if ok, msg := rules.ValidateVATID(o.VATID); !ok {
			msgs = append(msgs, msg)
		}
	}

	return msgs
}

// Draft prepares a request from the offer. The caller supplies the fields a
// vendor document does not contain.
func (o *Offer) Draft(title, department string) procure.Draft {
	d := procure.Draft{
		Title:      title,
		VendorName: o.VendorName,
		VATID:      o.VATID,
		Department: department,
		Lines:      o.OrderLines(),
	}
	if o.OfferNumber != "" {
		d.Notes = "Vendor offer " + o.OfferNumber
	}
	return d
}
