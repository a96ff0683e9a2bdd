package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tidwall/jsonc"

	"github.com/paularlott/procure"
	"github.com/paularlott/procure/offer"
	"github.com/paularlott/procure/rules"
	"github.com/paularlott/procure/toon"
)

func (a *app) encode(args []string) error {
	flagSet := a.newFlagSet("encode")
	input := flagSet.StringP("input", "i", inputAuto, "input format: auto, json or yaml")
	wrap := flagSet.Bool("wrap", false, "keep the braces or brackets of the top-level value")

	path, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	kind, err := inputKind(*input, path)
	if err != nil {
		return err
	}
	data, err := a.readInput(path)
	if err != nil {
		return err
	}
	value, err := parseValue(data, kind)
	if err != nil {
		return err
	}

	var out string
	if *wrap {
		out, err = toon.EncodeValue(value)
	} else {
		out, err = toon.Encode(value)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("encoded", "format", kind, "input_bytes", len(data), "output_bytes", len(out))
	_, err = fmt.Fprintln(a.stdout, out)
	return err
}

func (a *app) decode(args []string) error {
	flagSet := a.newFlagSet("decode")
	lenient := flagSet.Bool("lenient", false, "skip pairs without a ':' instead of failing")
	compact := flagSet.Bool("compact", false, "print compact JSON")

	path, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	data, err := a.readInput(path)
	if err != nil {
		return err
	}

	value, err := toon.DecodeWithOptions(strings.TrimSpace(string(data)), &toon.DecodeOptions{Strict: !*lenient})
	if err != nil {
		return err
	}
	raw, err := toon.ToJSON(value)
	if err != nil {
		return err
	}

	if *compact {
		_, err = fmt.Fprintln(a.stdout, string(raw))
		return err
	}
	return writeJSON(a.stdout, json.RawMessage(raw))
}

func (a *app) savings(args []string) error {
	flagSet := a.newFlagSet("savings")
	input := flagSet.StringP("input", "i", inputAuto, "input format: auto, json or yaml")
	asJSON := flagSet.Bool("json", false, "print the report as JSON")

	path, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	kind, err := inputKind(*input, path)
	if err != nil {
		return err
	}
	data, err := a.readInput(path)
	if err != nil {
		return err
	}

	var report toon.Savings
	if kind == inputJSON {
		// Measure the text as given; comments are not part of the payload.
		report, err = toon.EstimateSavingsJSON(string(jsonc.ToJSON(data)))
	} else {
		var value toon.Value
		value, err = parseValue(data, kind)
		if err == nil {
			report, err = toon.EstimateSavings(value)
		}
	}
	if err != nil {
		return err
	}

	if *asJSON {
		return writeJSON(a.stdout, report)
	}
	fmt.Fprintf(a.stdout, "JSON characters:     %d\n", report.JSONChars)
	fmt.Fprintf(a.stdout, "TOON characters:     %d\n", report.TOONChars)
	fmt.Fprintf(a.stdout, "Savings:             %.1f%%\n", report.SavingsPercent)
	fmt.Fprintf(a.stdout, "JSON tokens (est.):  %d\n", report.JSONTokensEst)
	fmt.Fprintf(a.stdout, "TOON tokens (est.):  %d\n", report.TOONTokensEst)
	fmt.Fprintf(a.stdout, "Tokens saved (est.): %d\n", report.TokensSavedEst)
	_, err = fmt.Fprintf(a.stdout, "Token counts assume %d characters per token and are not tokenizer output.\n", toon.CharsPerToken)
	return err
}

func (a *app) total(args []string) error {
	flagSet := a.newFlagSet("total")
	input := flagSet.StringP("input", "i", inputAuto, "input format: auto, json, yaml or toon")

	path, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	req, err := a.loadRequest(path, *input)
	if err != nil {
		return err
	}

	for i, line := range req.Lines {
		fmt.Fprintf(a.stdout, "%3d  %-11s %-32s %s x %s %s = %s\n",
			i+1, line.Type(), line.Description,
			line.Amount, line.UnitOrDefault(), line.UnitPrice, line.Total().StringFixed(2))
	}
	_, err = fmt.Fprintf(a.stdout, "Request total: %s\n", rules.RequestTotal(req.Lines).StringFixed(2))
	return err
}

// tolerance returns the --tolerance flag value, falling back to config.
func (a *app) tolerance(flag string) (decimal.Decimal, error) {
	if flag == "" {
		return a.cfg.Tolerance, nil
	}
	tol, err := decimal.NewFromString(flag)
	if err != nil || tol.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid tolerance %q", flag)
	}
	return tol, nil
}

func (a *app) validate(args []string) error {
	flagSet := a.newFlagSet("validate")
	input := flagSet.StringP("input", "i", inputAuto, "input format: auto, json, yaml or toon")
	tolFlag := flagSet.String("tolerance", "", "accepted difference for the stated total (default from PROCURE_TOLERANCE)")

	path, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	tol, err := a.tolerance(*tolFlag)
	if err != nil {
		return err
	}
	req, err := a.loadRequest(path, *input)
	if err != nil {
		return err
	}

	_, msgs := rules.ValidateRequestData(req.VATID, req.Lines)
	if req.Total != nil {
		if ok, msg := rules.ValidateRequestTotal(req.Lines, *req.Total, tol); !ok {
			msgs = append(msgs, msg)
		}
	}
	if req.From != "" || req.To != "" {
		if ok, msg := rules.ValidateStatusTransition(req.From, req.To); !ok {
			msgs = append(msgs, msg)
		}
	}

	if len(msgs) == 0 {
		_, err = fmt.Fprintln(a.stdout, "OK")
		return err
	}
	for _, msg := range msgs {
		fmt.Fprintf(a.stdout, "- %s\n", msg)
	}
	a.logger.Info("request rejected", "problems", len(msgs))
	return &exitError{code: 1}
}

func (a *app) create(args []string) error {
	flagSet := a.newFlagSet("create")
	input := flagSet.StringP("input", "i", inputAuto, "input format: auto, json, yaml or toon")
	requestor := flagSet.String("requestor", "", "requestor ID (default: a new random ID)")

	path, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}

	owner := uuid.New()
	if *requestor != "" {
		if owner, err = uuid.Parse(*requestor); err != nil {
			return fmt.Errorf("invalid requestor ID: %w", err)
		}
	}

	file, err := a.loadRequest(path, *input)
	if err != nil {
		return err
	}

	req, err := procure.NewRequest(owner, file.Draft)
	var verr *procure.ValidationError
	if errors.As(err, &verr) {
		for _, msg := range verr.Errors {
			fmt.Fprintf(a.stdout, "- %s\n", msg)
		}
		return &exitError{code: 1}
	}
	if err != nil {
		return err
	}

	if file.To != "" {
		if err := req.Transition(file.To, owner, ""); err != nil {
			return err
		}
	}

	a.logger.Info("request created", "id", req.ID, "total_cost", req.TotalCost.StringFixed(2))
	return writeJSON(a.stdout, req)
}

// offerResult mirrors what an extraction service reports back to its caller.
type offerResult struct {
	Offer        *offer.Offer  `json:"offer"`
	FormatUsed   offer.Format  `json:"format_used"`
	FallbackUsed bool          `json:"fallback_used"`
	TokenSavings *toon.Savings `json:"token_savings,omitempty"`
	Issues       []string      `json:"issues,omitempty"`
}

func (a *app) offer(args []string) error {
	flagSet := a.newFlagSet("offer")
	formatFlag := flagSet.String("format", a.cfg.Format, "reply format: toon or json")
	fallback := flagSet.Bool("fallback", a.cfg.FallbackJSON, "read the reply as JSON when it is not valid TOON")
	tolFlag := flagSet.String("tolerance", "", "accepted difference for stated totals (default from PROCURE_TOLERANCE)")

	path, err := parseFlags(flagSet, args)
	if err != nil {
		return err
	}
	format, err := offer.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}
	tol, err := a.tolerance(*tolFlag)
	if err != nil {
		return err
	}
	data, err := a.readInput(path)
	if err != nil {
		return err
	}

	result := offerResult{FormatUsed: format}
	reply := string(data)

	o, err := offer.Decode(reply, format)
	if err != nil && format == offer.FormatTOON && *fallback {
		a.logger.Info("TOON parsing failed, falling back to JSON", "error", err)
		var jsonErr error
		if o, jsonErr = offer.Decode(reply, offer.FormatJSON); jsonErr != nil {
			return fmt.Errorf("failed to parse offer with both TOON and JSON formats: %w", err)
		}
		err = nil
		result.FormatUsed = offer.FormatJSON
		result.FallbackUsed = true
	}
	if err != nil {
		return fmt.Errorf("failed to parse offer: %w", err)
	}

	if result.FormatUsed == offer.FormatTOON {
		if value, decErr := toon.DecodeWithOptions(offer.StripCodeFence(reply), &toon.DecodeOptions{Strict: false}); decErr == nil {
			if s, savErr := toon.EstimateSavings(value); savErr == nil {
				result.TokenSavings = &s
			}
		}
	}

	result.Offer = o
	result.Issues = o.Check(tol)
	a.logger.Info("offer parsed", "vendor", o.VendorName, "lines", len(o.Lines), "format", result.FormatUsed, "issues", len(result.Issues))
	return writeJSON(a.stdout, result)
}
