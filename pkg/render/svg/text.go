package svg

const (
	fontHeightRatio = 0.3
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 8.0
	fontSizeMax     = 18.0
	edgeLabelSize   = 11.0
)

// FontSize picks a label size that fits an entity box.
func FontSize(e Entity) float64 { return fontSizeFor(e.W, e.H, len(e.Label)) }

func fontSizeFor(availWidth, availHeight float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := availHeight * fontHeightRatio
	byWidth := (availWidth * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// TruncateLabel shortens the entity label so it fits the box at its font
// size, marking the cut with "..".
func TruncateLabel(e Entity) string {
	label := []rune(e.Label)
	charWidth := FontSize(e) * fontCharWidth
	maxChars := max(3, int(e.W*fontWidthRatio/charWidth))
	if len(label) <= maxChars {
		return e.Label
	}
	return string(label[:maxChars-2]) + ".."
}

func textWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * fontCharWidth
}
