package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/jsonc"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/paularlott/procure"
	"github.com/paularlott/procure/rules"
	"github.com/paularlott/procure/toon"
)

// Input formats accepted by the --input flag.
const (
	inputAuto = "auto"
	inputJSON = "json"
	inputYAML = "yaml"
	inputTOON = "toon"
)

// readInput reads path, or stdin when path is empty or "-".
func (a *app) readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return nil, errors.New("no input: pass a file or pipe data on stdin")
		}
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// inputKind picks the input format from the flag, then the file extension.
func inputKind(flag, path string) (string, error) {
	switch flag = strings.ToLower(flag); flag {
	case inputJSON, inputYAML, inputTOON:
		return flag, nil
	case "", inputAuto:
	default:
		return "", fmt.Errorf("unknown input format %q", flag)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return inputYAML, nil
	case ".toon":
		return inputTOON, nil
	}
	return inputJSON, nil
}

// parseValue decodes data in the given format into a TOON value. Object key
// order is kept for every format.
func parseValue(data []byte, kind string) (toon.Value, error) {
	switch kind {
	case inputYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		return yamlValue(&doc)
	case inputTOON:
		return toon.Decode(string(data))
	default:
		return toon.FromJSON(jsonc.ToJSON(data))
	}
}

func yamlValue(node *yaml.Node) (toon.Value, error) {
	switch node.Kind {
	case 0:
		return toon.NewObject(), nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return toon.NewObject(), nil
		}
		return yamlValue(node.Content[0])
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	case yaml.MappingNode:
		obj := toon.NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			value, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			obj.Set(key, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := toon.Array{}
		for _, item := range node.Content {
			value, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		return arr, nil
	}

	switch node.ShortTag() {
	case "!!null":
		return toon.Null{}, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return toon.Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return toon.Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return toon.Float(f), nil
	}
	return toon.String(node.Value), nil
}

// requestFile is the document read by the total, validate and create
// commands. From and To describe an optional status change to check.
type requestFile struct {
	procure.Draft
	Total *decimal.Decimal `json:"total,omitempty"`
	From  rules.Status     `json:"from,omitempty"`
	To    rules.Status     `json:"to,omitempty"`
}

func (a *app) loadRequest(path, kindFlag string) (*requestFile, error) {
	kind, err := inputKind(kindFlag, path)
	if err != nil {
		return nil, err
	}
	data, err := a.readInput(path)
	if err != nil {
		return nil, err
	}
	value, err := parseValue(data, kind)
	if err != nil {
		return nil, err
	}

	raw, err := toon.ToJSON(value)
	if err != nil {
		return nil, err
	}
	var req requestFile
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}

	a.logger.Debug("request loaded", "format", kind, "lines", len(req.Lines))
	return &req, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
