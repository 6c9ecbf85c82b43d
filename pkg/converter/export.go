package converter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/salem909/auton-maple/pkg/models"
)

// commandIndent marks command rows in the legacy format.
const commandIndent = "    "

// ToCSV renders the routine in the legacy command-line format. Nodes are
// emitted in derived execution order (next-chain walk from the start node,
// cycle-guarded), then orphans in insertion order, so no node is dropped.
// Fields matching their defaults are omitted; the output is semantically
// equivalent to the source, not byte-identical.
func ToCSV(routine *models.Routine) string {
	var lines []string

	for _, node := range routine.ExecutionOrder() {
		switch n := node.(type) {
		case *models.PointNode:
			lines = append(lines, pointLine(n))
			for _, cmd := range n.Commands {
				lines = append(lines, commandLine(cmd))
			}

		case *models.LabelNode:
			// Blank separator before each label, for readability.
			lines = append(lines, "", fmt.Sprintf("%s, label=%s", symbolLabel, n.Label))

		case *models.JumpNode:
			lines = append(lines, jumpLine(n))

		case *models.SettingNode:
			lines = append(lines, fmt.Sprintf("%s, target=%s, value=%s",
				symbolSetting, n.SettingKey, formatValue(n.SettingValue)))

		default:
			// Unknown kinds have no legacy syntax; keep them out of the CSV
			// rather than writing rows the parser would drop.
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

func pointLine(node *models.PointNode) string {
	args := []string{
		symbolPoint,
		"x=" + formatNumber(node.GamePosition.X),
		"y=" + formatNumber(node.GamePosition.Y),
	}

	if node.Frequency != 1 {
		args = append(args, fmt.Sprintf("frequency=%d", node.Frequency))
	}

	if node.Skip {
		args = append(args, "skip=True")
	}

	if node.Adjust {
		args = append(args, "adjust=True")
	}

	return strings.Join(args, ", ")
}

func jumpLine(node *models.JumpNode) string {
	args := []string{symbolJump, "label=" + node.TargetLabel}

	if node.Frequency != 1 {
		args = append(args, fmt.Sprintf("frequency=%d", node.Frequency))
	}

	if node.Skip {
		args = append(args, "skip=True")
	}

	return strings.Join(args, ", ")
}

// commandLine emits one indented command row. Params are sorted by key so
// output is deterministic; the mapping itself is unordered.
func commandLine(cmd models.Command) string {
	if len(cmd.Params) == 0 {
		return commandIndent + cmd.Type
	}

	keys := make([]string, 0, len(cmd.Params))
	for key := range cmd.Params {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	parts := []string{commandIndent + cmd.Type}
	for _, key := range keys {
		parts = append(parts, key+"="+formatValue(cmd.Params[key]))
	}

	return strings.Join(parts, ", ")
}

// formatNumber renders coordinates without a trailing ".0" so round-tripped
// files stay compact.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return formatNumber(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
