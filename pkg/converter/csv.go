package converter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/salem909/auton-maple/pkg/models"
)

// Initial editor layout for converted nodes: a left-to-right strip with
// fixed spacing. Purely cosmetic; the editor rearranges from here.
const (
	layoutStartX   = 100
	layoutStartY   = 100
	layoutXSpacing = 200
)

// Row symbols of the legacy format. Word aliases are accepted
// case-insensitively.
const (
	symbolPoint   = "*"
	symbolLabel   = "@"
	symbolJump    = ">"
	symbolSetting = "$"
)

// ParseCSV reads a legacy CSV routine. One row per logical line:
//
//   - blank rows are skipped
//   - rows whose first cell starts with whitespace are command rows and
//     attach to the most recently opened point; with no point open they are
//     dropped
//   - other rows declare nodes via the symbol table; unrecognized symbols are
//     dropped
//
// Declaration order becomes the default next chain, and the first declared
// node becomes the start node. Malformed rows are lenient except for numeric
// fields, which are fatal.
func ParseCSV(r io.Reader, metadata models.Metadata) (*models.Routine, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Leading whitespace on the first cell is the command-row marker, so the
	// reader must not strip it.
	reader.TrimLeadingSpace = false

	routine := models.NewRoutine(metadata)

	var (
		counter      int
		previous     models.Node
		currentPoint *models.PointNode
		line         int
	)

	x := float64(layoutStartX)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}

		line++

		if len(record) == 0 {
			continue
		}

		first := record[0]

		trimmed := strings.TrimSpace(first)
		if trimmed == "" {
			continue
		}

		if first[0] == ' ' || first[0] == '\t' {
			// Command row. Commands cannot attach past a point boundary.
			if currentPoint == nil {
				continue
			}

			currentPoint.Commands = append(currentPoint.Commands, models.Command{
				Type:   strings.ToLower(trimmed),
				Params: commandParams(record[1:]),
			})

			continue
		}

		symbol := strings.ToLower(trimmed)
		params := parseParams(record[1:])

		// Ids are never reused, even when the row turns out malformed.
		id := fmt.Sprintf("node_%d", counter)
		counter++

		editorPos := models.Position{X: x, Y: layoutStartY}

		var node models.Node

		switch symbol {
		case symbolPoint, "point":
			point, err := parsePointRow(id, editorPos, params, line)
			if err != nil {
				return nil, err
			}

			currentPoint = point
			node = point

		case symbolLabel, "label":
			name, ok := params["label"]
			if !ok {
				name = fmt.Sprintf("label_%d", counter)
			}

			currentPoint = nil
			node = models.NewLabelNode(id, editorPos, name)

		case symbolJump, "jump", "goto":
			jump := models.NewJumpNode(id, editorPos, params["label"])

			frequency, err := parseIntParam(params, "frequency", 1, line)
			if err != nil {
				return nil, err
			}

			jump.Frequency = frequency
			jump.Skip = parseBoolParam(params, "skip")

			currentPoint = nil
			node = jump

		case symbolSetting, "setting":
			currentPoint = nil
			node = models.NewSettingNode(id, editorPos, params["target"], params["value"])

		default:
			// Unknown symbol; drop the row.
			continue
		}

		if err := routine.AddNode(node); err != nil {
			return nil, err
		}

		if previous != nil {
			previous.Base().SetNext(id)
		}

		if routine.StartNode == "" {
			routine.StartNode = id
		}

		previous = node
		x += layoutXSpacing
	}

	if routine.StartNode == "" {
		routine.StartNode = "node_0"
	}

	return routine, nil
}

func parsePointRow(id string, editorPos models.Position, params map[string]string, line int) (*models.PointNode, error) {
	gameX, err := parseFloatParam(params, "x", line)
	if err != nil {
		return nil, err
	}

	gameY, err := parseFloatParam(params, "y", line)
	if err != nil {
		return nil, err
	}

	frequency, err := parseIntParam(params, "frequency", 1, line)
	if err != nil {
		return nil, err
	}

	point := models.NewPointNode(id, editorPos, models.Position{X: gameX, Y: gameY})
	point.Frequency = frequency
	point.Skip = parseBoolParam(params, "skip")
	point.Adjust = parseBoolParam(params, "adjust")

	return point, nil
}

// parseParams turns key=value cells into a map. Cells without "=" are
// ignored; the first "=" is the split point, so values may contain "=".
func parseParams(cells []string) map[string]string {
	params := make(map[string]string, len(cells))

	for _, cell := range cells {
		key, value, found := strings.Cut(cell, "=")
		if !found {
			continue
		}

		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	return params
}

// commandParams parses key=value cells into the untyped param map commands
// carry. Values stay strings; the command book owns their interpretation.
func commandParams(cells []string) map[string]any {
	parsed := parseParams(cells)

	params := make(map[string]any, len(parsed))
	for key, value := range parsed {
		params[key] = value
	}

	return params
}

func parseFloatParam(params map[string]string, key string, line int) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return 0, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Field: key, Err: fmt.Errorf("%w: %q", ErrMalformedNumber, raw)}
	}

	return value, nil
}

func parseIntParam(params map[string]string, key string, fallback, line int) (int, error) {
	raw, ok := params[key]
	if !ok {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ParseError{Line: line, Field: key, Err: fmt.Errorf("%w: %q", ErrMalformedNumber, raw)}
	}

	return value, nil
}

// parseBoolParam accepts a case-insensitive "true" literal; anything else,
// including absence, is false.
func parseBoolParam(params map[string]string, key string) bool {
	return strings.EqualFold(params[key], "true")
}
