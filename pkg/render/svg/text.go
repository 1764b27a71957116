package svg

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	fontCharWidth = 0.55
	fontSizeMin   = 9.0
	fontSizeMax   = 16.0
)

// fontSizeFor picks the largest font size that fits text of textLen
// characters into availWidth, clamped to a readable range.
func fontSizeFor(availWidth float64, textLen int) float64 {
	n := max(1, textLen)
	byWidth := availWidth / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, byWidth))
}

// truncate shortens s so that it fits availWidth at the given font size.
func truncate(s string, availWidth, fontSize float64) string {
	maxChars := max(3, int(availWidth/(fontSize*fontCharWidth)))
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	r := []rune(s)
	return string(r[:maxChars-2]) + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
