package toon

import (
	"math"
	"unicode/utf8"
)

// CharsPerToken is the rough characters-per-token ratio for English text used
// by the savings estimate. It is a heuristic, not a tokenizer.
const CharsPerToken = 4

// Savings compares the size of the JSON and TOON encodings of the same data.
// The token fields are estimates derived from CharsPerToken and will differ
// from what a real model tokenizer reports.
type Savings struct {
	JSONChars      int     `json:"json_chars"`
	TOONChars      int     `json:"toon_chars"`
	SavingsPercent float64 `json:"savings_percent"`
	JSONTokensEst  int     `json:"json_tokens_est"`
	TOONTokensEst  int     `json:"toon_tokens_est"`
	TokensSavedEst int     `json:"tokens_saved_est"`
}

// EstimateSavings measures v against the JSON a typical serializer emits
// by default: ", " and ": " separators, floats keeping their '.', and
// non-ASCII text unescaped.
func EstimateSavings(v Value) (Savings, error) {
	w := newJSONWriter(", ", ": ")
	w.formatFloat = formatFloat
	if err := w.write(v); err != nil {
		return Savings{}, err
	}
	return estimate(w.buf.String(), v)
}

// EstimateSavingsJSON measures JSON text exactly as given, whitespace
// included, against its TOON encoding.
func EstimateSavingsJSON(text string) (Savings, error) {
	v, err := FromJSON([]byte(text))
	if err != nil {
		return Savings{}, err
	}
	return estimate(text, v)
}

func estimate(jsonText string, v Value) (Savings, error) {
	toonText, err := Encode(v)
	if err != nil {
		return Savings{}, err
	}

	jsonChars := utf8.RuneCountInString(jsonText)
	toonChars := utf8.RuneCountInString(toonText)

	var percent float64
	if jsonChars > 0 {
		percent = float64(jsonChars-toonChars) / float64(jsonChars) * 100
	}

	jsonTokens := float64(jsonChars) / CharsPerToken
	toonTokens := float64(toonChars) / CharsPerToken

	return Savings{
		JSONChars:      jsonChars,
		TOONChars:      toonChars,
		SavingsPercent: math.RoundToEven(percent*10) / 10,
		JSONTokensEst:  int(math.RoundToEven(jsonTokens)),
		TOONTokensEst:  int(math.RoundToEven(toonTokens)),
		TokensSavedEst: int(math.RoundToEven(jsonTokens - toonTokens)),
	}, nil
}
