package converter

import (
	"fmt"
	"strconv"

	gographviz "github.com/awalterschulze/gographviz"

	"github.com/salem909/auton-maple/pkg/models"
)

const dotGraphName = "routine"

// nodeShapes gives each kind a distinct Graphviz shape.
var nodeShapes = map[models.NodeKind]string{
	models.NodeKindPoint:   "box",
	models.NodeKindLabel:   "oval",
	models.NodeKindJump:    "diamond",
	models.NodeKindSetting: "note",
}

// ToDOT renders the routine graph as Graphviz DOT for visualization: solid
// edges for the next chain, dashed edges for jump-to-label resolution. Jumps
// whose target label does not resolve get no dashed edge; like everywhere
// else, dangling references are not an error.
func ToDOT(routine *models.Routine) (string, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName(dotGraphName); err != nil {
		return "", fmt.Errorf("dot graph: %w", err)
	}

	if err := graph.SetDir(true); err != nil {
		return "", fmt.Errorf("dot graph: %w", err)
	}

	labelOwners := make(map[string]string) // label name -> node id

	for _, node := range routine.ExecutionOrder() {
		base := node.Base()

		attrs := map[string]string{
			"label": strconv.Quote(nodeCaption(node)),
		}
		if shape, ok := nodeShapes[node.Kind()]; ok {
			attrs["shape"] = shape
		}

		if err := graph.AddNode(dotGraphName, strconv.Quote(base.ID), attrs); err != nil {
			return "", fmt.Errorf("dot node %s: %w", base.ID, err)
		}

		if label, ok := node.(*models.LabelNode); ok {
			if _, taken := labelOwners[label.Label]; !taken {
				labelOwners[label.Label] = base.ID
			}
		}
	}

	for _, node := range routine.Nodes {
		base := node.Base()

		if next := base.NextID(); next != "" && routine.GetNode(next) != nil {
			if err := graph.AddEdge(strconv.Quote(base.ID), strconv.Quote(next), true, nil); err != nil {
				return "", fmt.Errorf("dot edge %s->%s: %w", base.ID, next, err)
			}
		}

		jump, ok := node.(*models.JumpNode)
		if !ok {
			continue
		}

		target, ok := labelOwners[jump.TargetLabel]
		if !ok {
			continue
		}

		edgeAttrs := map[string]string{"style": "dashed"}
		if err := graph.AddEdge(strconv.Quote(base.ID), strconv.Quote(target), true, edgeAttrs); err != nil {
			return "", fmt.Errorf("dot edge %s->%s: %w", base.ID, target, err)
		}
	}

	return graph.String(), nil
}

func nodeCaption(node models.Node) string {
	switch n := node.(type) {
	case *models.PointNode:
		return fmt.Sprintf("point (%s, %s)", formatNumber(n.GamePosition.X), formatNumber(n.GamePosition.Y))
	case *models.LabelNode:
		return "label " + n.Label
	case *models.JumpNode:
		return "jump to " + n.TargetLabel
	case *models.SettingNode:
		return fmt.Sprintf("%s = %s", n.SettingKey, formatValue(n.SettingValue))
	default:
		return string(node.Kind())
	}
}
