// Package render turns layout scenes into SVG documents and provides
// the default text measurement used by the layout pass.
package render

// EstimatingMeasurer approximates text extents from character counts.
// SVG has no font metrics available server-side, so width is estimated
// as a fixed fraction of the font size per glyph. The ratios match a
// typical sans-serif at the default chart font.
type EstimatingMeasurer struct {
	// CharWidthRatio is the average glyph advance as a fraction of the
	// font size. Zero selects the default.
	CharWidthRatio float64
	// LineHeightRatio is the line box height as a fraction of the font
	// size. Zero selects the default.
	LineHeightRatio float64
}

const (
	defaultCharWidthRatio  = 0.6
	defaultLineHeightRatio = 1.2
)

// MeasureText returns the estimated width and height of a single-line
// text run at the given font size.
func (m EstimatingMeasurer) MeasureText(text string, fontSize float64) (w, h float64) {
	cw := m.CharWidthRatio
	if cw == 0 {
		cw = defaultCharWidthRatio
	}
	lh := m.LineHeightRatio
	if lh == 0 {
		lh = defaultLineHeightRatio
	}
	runes := 0
	for range text {
		runes++
	}
	return float64(runes) * fontSize * cw, fontSize * lh
}
