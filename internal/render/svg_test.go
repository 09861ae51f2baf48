package render

import (
	"strings"
	"testing"

	"github.com/roadmap-visualizer/backend/internal/models"
)

func testScene() *models.Scene {
	return &models.Scene{
		Area: models.Rect{W: 800, H: 600},
		Road: &models.Stroke{
			Points: []models.Point{{X: 400, Y: 600}, {X: 200, Y: 400}, {X: 400, Y: 0}},
			Color:  "#000000",
			Width:  10,
			Style:  models.LineStyleSpline,
		},
		Labels: []models.TextLabel{
			{Text: "Age & Income (-7)", At: models.Point{X: 0, Y: 460}, Anchor: models.AnchorBottomLeft, FontSize: 12, Scale: 1},
			{Text: "Edu", At: models.Point{X: 800, Y: 300}, Anchor: models.AnchorBottomRight, FontSize: 12, Scale: 0.5},
		},
		Markers: []models.Marker{
			{Shape: models.MarkerShapeLocationPin, At: models.Point{X: 200, Y: 400}, Size: 20, Color: "#FF6347"},
		},
		LabelScale: 1,
	}
}

func TestRenderScene(t *testing.T) {
	r := &SVGRenderer{}
	out := string(r.RenderScene(testScene(), nil))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("Expected SVG document header")
	}
	if !strings.Contains(out, "</svg>") {
		t.Error("Expected closing svg tag")
	}

	// Spline roads emit cubic Bezier segments
	if !strings.Contains(out, " C ") {
		t.Error("Expected Bezier curve commands for spline road")
	}

	// XML-unsafe label text is escaped
	if !strings.Contains(out, "Age &amp; Income") {
		t.Error("Expected ampersand to be escaped")
	}

	// Anchor corners map to text-anchor values
	if !strings.Contains(out, `text-anchor="start"`) || !strings.Contains(out, `text-anchor="end"`) {
		t.Error("Expected both start and end text anchors")
	}

	// Scaled label renders at half size
	if !strings.Contains(out, `font-size="6"`) {
		t.Error("Expected 0.5-scaled 12pt label to render at 6")
	}
}

func TestRenderSceneBackground(t *testing.T) {
	r := &SVGRenderer{Background: "#FFFFFF"}
	out := string(r.RenderScene(testScene(), nil))
	if !strings.Contains(out, `fill="#FFFFFF"`) {
		t.Error("Expected background rect")
	}

	plain := &SVGRenderer{}
	out = string(plain.RenderScene(testScene(), nil))
	if strings.Contains(out, `<rect`) {
		t.Error("Expected no background rect by default")
	}
}

func TestRenderSceneEmpty(t *testing.T) {
	r := &SVGRenderer{}
	scene := &models.Scene{Area: models.Rect{W: 800, H: 600}, LabelScale: 1}
	out := string(r.RenderScene(scene, nil))

	if strings.Contains(out, "<path") {
		t.Error("Expected no drawing primitives for an empty scene")
	}
	if !strings.Contains(out, "</svg>") {
		t.Error("Expected a valid document even when empty")
	}
}

func TestRenderSceneLegend(t *testing.T) {
	r := &SVGRenderer{}
	legend := &models.Legend{
		Header: "Key",
		Entries: []models.LegendEntry{
			{Shape: models.MarkerShapeLocationPin, Color: "#4CBB17", Label: "Positively associated"},
			{Shape: models.MarkerShapeLocationPin, Color: "#FF6347", Label: "Negatively associated"},
		},
	}
	out := string(r.RenderScene(testScene(), legend))

	if !strings.Contains(out, ">Key</text>") {
		t.Error("Expected legend header")
	}
	if !strings.Contains(out, "Positively associated") || !strings.Contains(out, "Negatively associated") {
		t.Error("Expected both legend entries")
	}
}

func TestRenderSceneCaption(t *testing.T) {
	r := &SVGRenderer{}
	scene := testScene()
	scene.Caption = "The larger the marker, the stronger the association"
	out := string(r.RenderScene(scene, nil))
	if !strings.Contains(out, "font-style=\"italic\"") {
		t.Error("Expected italic caption text")
	}
	if !strings.Contains(out, "the stronger the association") {
		t.Error("Expected caption content")
	}
}

func TestStrokeDash(t *testing.T) {
	var b strings.Builder
	writeStroke(&b, &models.Stroke{
		Points: []models.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
		Color:  "#808069",
		Width:  1,
		Style:  models.LineStyleStraight,
		Dash:   []float64{6, 4},
	})
	if !strings.Contains(b.String(), `stroke-dasharray="6 4"`) {
		t.Errorf("Expected dash array, got %s", b.String())
	}
}

func TestNum(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{400, "400"},
		{1.5, "1.5"},
		{0.125, "0.13"},
		{-0.001, "0"},
	}
	for _, tc := range cases {
		if got := num(tc.in); got != tc.want {
			t.Errorf("num(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
