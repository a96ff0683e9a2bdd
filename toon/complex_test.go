package toon

import (
	"testing"
)

const offerReply = `vendor_name:Dell Technologies GmbH|vat_id:DE123456789|currency:EUR|order_lines:[{line_type:standard|description:Laptop XPS 15|detailed_description:Intel i7, 32GB RAM, 1TB SSD|unit_price_net:1299.99|amount:5|unit:pcs|discount_percent:10|line_total_net:5849.96};{line_type:alternative|description:Laptop XPS 17|detailed_description:Intel i9, 64GB RAM|unit_price_net:2499.99|amount:5|unit:pcs|line_total_net:12499.95}]|subtotal_net:5849.96|delivery_cost_net:49.99|delivery_tax_amount:9.50|tax_rate:19|tax_amount:1111.49|total_gross:7020.94`

func TestComplexOfferDocument(t *testing.T) {
	decoded, err := Decode(offerReply)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	offer, ok := decoded.(*Object)
	if !ok {
		t.Fatalf("Expected object, got %s", KindOf(decoded))
	}

	if got := offer.StringOr("vendor_name", ""); got != "Dell Technologies GmbH" {
		t.Errorf("vendor_name = %q", got)
	}
	if got := offer.IntOr("tax_rate", 0); got != 19 {
		t.Errorf("tax_rate = %d", got)
	}
	if got := offer.FloatOr("delivery_tax_amount", 0); got != 9.5 {
		t.Errorf("delivery_tax_amount = %v", got)
	}

	lines, err := offer.Array("order_lines")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("Expected 2 order lines, got %d", len(lines))
	}

	first := lines[0].(*Object)
	if got := first.StringOr("detailed_description", ""); got != "Intel i7, 32GB RAM, 1TB SSD" {
		t.Errorf("detailed_description = %q", got)
	}
	if got := first.IntOr("discount_percent", 0); got != 10 {
		t.Errorf("discount_percent = %d", got)
	}
	second := lines[1].(*Object)
	if second.Has("discount_percent") {
		t.Error("second line should have no discount")
	}
	if got := second.StringOr("line_type", ""); got != "alternative" {
		t.Errorf("line_type = %q", got)
	}

	// Re-encoding normalises 9.50 to 9.5 but must decode to the same data
	encoded, err := Encode(decoded)
	if err != nil {
		t.Fatal(err)
	}
	again, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(again, decoded) {
		t.Errorf("Re-encoded document differs:\n%s", encoded)
	}
}

func TestComplexFromJSON(t *testing.T) {
	jsonText := `{
		"vendor_name": "Dell",
		"order_lines": [
			{"description": "Laptop", "unit_price": 999.99, "amount": 2},
			{"description": "Dock | USB-C", "unit_price": 189, "amount": 1, "tags": []}
		],
		"meta": {"source": "offer.pdf", "pages": [1, 2]}
	}`

	value, err := FromJSON([]byte(jsonText))
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := Encode(value)
	if err != nil {
		t.Fatal(err)
	}

	expected := `vendor_name:Dell|order_lines:[{description:Laptop|unit_price:999.99|amount:2};{description:"Dock | USB-C"|unit_price:189|amount:1|tags:[]}]|meta:{source:offer.pdf|pages:[1;2]}`
	if encoded != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, encoded)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(decoded, value) {
		t.Errorf("Round trip mismatch: %v", decoded)
	}
}
