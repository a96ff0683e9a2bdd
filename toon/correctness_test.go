package toon

import (
	"math/rand"
	"strings"
	"testing"
)

var (
	genAlphabet = []string{"a", "Z", "0", "7", " ", ".", "-", "e", "|", ":", ";", "{", "}", "[", "]", `"`, "\n", "\r", "\t", `\`, "é", "€"}
	genTokens   = []string{"", " ", "null", "true", "false", "123", "-0", "1.5", "1e5", "Dell Laptop", "https://x.io:80"}
)

// valueGen produces random values nested up to maxDepth.
type valueGen struct {
	r        *rand.Rand
	maxDepth int
}

func (g *valueGen) str() string {
	if g.r.Intn(4) == 0 {
		return genTokens[g.r.Intn(len(genTokens))]
	}
	var b strings.Builder
	for n := g.r.Intn(8); n >= 0; n-- {
		b.WriteString(genAlphabet[g.r.Intn(len(genAlphabet))])
	}
	return b.String()
}

func (g *valueGen) value(depth int) Value {
	kinds := 7
	if depth >= g.maxDepth {
		kinds = 5
	}
	switch g.r.Intn(kinds) {
	case 0:
		return Null{}
	case 1:
		return Bool(g.r.Intn(2) == 0)
	case 2:
		return Int(g.r.Int63n(2_000_000) - 1_000_000)
	case 3:
		if g.r.Intn(3) == 0 {
			return Float(float64(g.r.Intn(1000)))
		}
		return Float(g.r.NormFloat64() * 1000)
	case 4:
		return String(g.str())
	case 5:
		return g.object(depth + 1)
	default:
		arr := Array{}
		for n := g.r.Intn(4); n > 0; n-- {
			arr = append(arr, g.value(depth+1))
		}
		return arr
	}
}

func (g *valueGen) object(depth int) *Object {
	o := NewObject()
	for n := g.r.Intn(5); n > 0; n-- {
		o.Set(g.str(), g.value(depth))
	}
	return o
}

func TestRoundTripProperty(t *testing.T) {
	g := &valueGen{r: rand.New(rand.NewSource(20240611)), maxDepth: 5}

	for i := 0; i < 2000; i++ {
		original := g.object(1)

		encoded, err := Encode(original)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode failed for %q: %v", encoded, err)
		}
		if !Equal(decoded, original) {
			t.Fatalf("Round trip mismatch for %q:\nExpected: %v\nGot: %v", encoded, original, decoded)
		}

		reencoded, err := Encode(decoded)
		if err != nil {
			t.Fatalf("Re-encode failed: %v", err)
		}
		if reencoded != encoded {
			t.Fatalf("Re-encoding not idempotent:\nFirst: %q\nSecond: %q", encoded, reencoded)
		}
	}
}

func TestRoundTripAnyValue(t *testing.T) {
	g := &valueGen{r: rand.New(rand.NewSource(7)), maxDepth: 5}

	for i := 0; i < 2000; i++ {
		original := g.value(1)

		encoded, err := EncodeValue(original)
		if err != nil {
			t.Fatalf("EncodeValue failed: %v", err)
		}
		decoded, err := DecodeValue(encoded)
		if err != nil {
			t.Fatalf("DecodeValue failed for %q: %v", encoded, err)
		}
		if !Equal(decoded, original) {
			t.Fatalf("Round trip mismatch for %q:\nExpected: %v\nGot: %v", encoded, original, decoded)
		}
	}
}

func TestCorrectnessIssues(t *testing.T) {
	t.Run("int_float_distinction", func(t *testing.T) {
		decoded, err := Decode("a:5|b:5.0|c:-2|d:0.25")
		if err != nil {
			t.Fatal(err)
		}
		expected := obj("a", Int(5), "b", Float(5), "c", Int(-2), "d", Float(0.25))
		if !Equal(decoded, expected) {
			t.Errorf("Expected %v, got %v", expected, decoded)
		}
	})

	t.Run("int_and_float_not_equal", func(t *testing.T) {
		if Equal(Int(5), Float(5)) {
			t.Error("Int and Float must stay distinct")
		}
	})

	t.Run("canonical_number_formatting", func(t *testing.T) {
		result, err := Encode(obj("large", Float(1e15), "small", Float(0.000125)))
		if err != nil {
			t.Fatal(err)
		}
		if result != "large:1000000000000000.0|small:0.000125" {
			t.Errorf("Unexpected number formatting: %s", result)
		}
	})

	t.Run("exponent_keeps_dot", func(t *testing.T) {
		result, err := Encode(obj("v", Float(2e22)))
		if err != nil {
			t.Fatal(err)
		}
		if result != "v:2.0e+22" {
			t.Errorf("Expected dotted mantissa, got %s", result)
		}
	})

	t.Run("nested_depth", func(t *testing.T) {
		input := "a:{b:{c:{d:{e:[1;[2;{f:g}]]}}}}"
		decoded, err := Decode(input)
		if err != nil {
			t.Fatal(err)
		}
		encoded, err := Encode(decoded)
		if err != nil {
			t.Fatal(err)
		}
		if encoded != input {
			t.Errorf("Expected %q, got %q", input, encoded)
		}
	})
}
