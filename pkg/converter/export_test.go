package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salem909/auton-maple/pkg/models"
)

func TestToCSV_Sample(t *testing.T) {
	routine := parseSample(t, sampleCSV)

	out := ToCSV(routine)

	want := strings.Join([]string{
		"*, x=100, y=200",
		"    attack",
		"*, x=300, y=200, frequency=2",
		"    buff",
		"",
		"@, label=main_loop",
		">, label=main_loop",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestToCSV_DefaultSuppression(t *testing.T) {
	routine := models.NewRoutine(models.Metadata{})

	point := models.NewPointNode("p", models.Position{}, models.Position{X: 1, Y: 2})
	point.Frequency = 3
	point.Skip = true
	point.Adjust = true
	require.NoError(t, routine.AddNode(point))
	routine.StartNode = "p"

	out := ToCSV(routine)

	assert.Equal(t, "*, x=1, y=2, frequency=3, skip=True, adjust=True\n", out)
}

func TestToCSV_CommandParamsSortedByKey(t *testing.T) {
	routine := models.NewRoutine(models.Metadata{})

	point := models.NewPointNode("p", models.Position{}, models.Position{})
	point.Commands = append(point.Commands, models.Command{
		Type:   "attack",
		Params: map[string]any{"skill": "arrow_rain", "direction": "left", "count": float64(3)},
	})
	require.NoError(t, routine.AddNode(point))
	routine.StartNode = "p"

	out := ToCSV(routine)

	assert.Contains(t, out, "    attack, count=3, direction=left, skill=arrow_rain")
}

func TestToCSV_CycleTerminates(t *testing.T) {
	routine := parseSample(t, sampleCSV)
	// Jump back to the first point: the next chain now loops.
	routine.ConnectNodes("node_3", "node_0")

	out := ToCSV(routine)

	assert.Equal(t, 2, strings.Count(out, "*, "), "each point emitted exactly once")
	assert.Equal(t, 1, strings.Count(out, ">, "), "jump emitted exactly once")
}

func TestToCSV_DanglingStartEmitsOrphans(t *testing.T) {
	routine := parseSample(t, sampleCSV)
	routine.StartNode = "deleted"

	out := ToCSV(routine)

	// Nothing reachable from the start pointer; everything is emitted as an
	// orphan in insertion order.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "*, x=100, y=200", lines[0])
	assert.Contains(t, out, ">, label=main_loop")
}

func TestToCSV_EmptyRoutine(t *testing.T) {
	routine := models.NewRoutine(models.Metadata{})

	assert.Equal(t, "\n", ToCSV(routine))
}

func TestRoundTrip_PreservesKindsFieldsAndOrder(t *testing.T) {
	original := parseSample(t, sampleCSV)

	reparsed := parseSample(t, ToCSV(original))

	originalOrder := original.ExecutionOrder()
	reparsedOrder := reparsed.ExecutionOrder()
	require.Len(t, reparsedOrder, len(originalOrder))

	for i, want := range originalOrder {
		got := reparsedOrder[i]
		assert.Equal(t, want.Kind(), got.Kind(), "node %d kind", i)

		switch wantNode := want.(type) {
		case *models.PointNode:
			gotNode, ok := got.(*models.PointNode)
			require.True(t, ok)
			assert.Equal(t, wantNode.GamePosition, gotNode.GamePosition)
			assert.Equal(t, wantNode.Frequency, gotNode.Frequency)
			assert.Equal(t, wantNode.Skip, gotNode.Skip)
			assert.Equal(t, wantNode.Adjust, gotNode.Adjust)
			assert.Equal(t, wantNode.Commands, gotNode.Commands)
		case *models.LabelNode:
			gotNode, ok := got.(*models.LabelNode)
			require.True(t, ok)
			assert.Equal(t, wantNode.Label, gotNode.Label)
		case *models.JumpNode:
			gotNode, ok := got.(*models.JumpNode)
			require.True(t, ok)
			assert.Equal(t, wantNode.TargetLabel, gotNode.TargetLabel)
			assert.Equal(t, wantNode.Frequency, gotNode.Frequency)
			assert.Equal(t, wantNode.Skip, gotNode.Skip)
		}
	}
}

func TestRoundTrip_FractionalCoordinates(t *testing.T) {
	routine := parseSample(t, "*, x=12.5, y=-3.25\n")

	reparsed := parseSample(t, ToCSV(routine))

	point, ok := reparsed.Nodes[0].(*models.PointNode)
	require.True(t, ok)
	assert.Equal(t, models.Position{X: 12.5, Y: -3.25}, point.GamePosition)
}
