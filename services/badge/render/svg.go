package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

const (
	badgeHeight = 20

	// approximate monospace metrics, exact text measuring is not worth a font dependency here
	pixelsPerRune = 8
	segmentPad    = 10

	labelFill = "#555"
	valueFill = "#4c1"
)

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// SVG renders a badge as a two-segment vector image: dark label segment on the
// left, green value segment on the right, text centered and drawn twice for a
// drop-shadow effect. The output is fully determined by the input badge.
func SVG(b common.Badge) string {
	labelWidth := segmentWidth(b.Label)
	valueWidth := segmentWidth(b.ValueText)
	totalWidth := labelWidth + valueWidth

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`, totalWidth, badgeHeight))
	sb.WriteString("\n")

	for _, line := range b.MetadataLines {
		sb.WriteString(fmt.Sprintf("<!-- %s -->\n", sanitizeComment(line)))
	}

	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="%s"/>`, labelWidth, badgeHeight, labelFill))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(`<rect x="%d" width="%d" height="%d" fill="%s"/>`, labelWidth, valueWidth, badgeHeight, valueFill))
	sb.WriteString("\n")

	sb.WriteString(`<g fill="#fff" text-anchor="middle" font-family="Verdana,Geneva,DejaVu Sans,sans-serif" font-size="11">`)
	sb.WriteString("\n")
	writeText(&sb, labelWidth/2, b.Label)
	writeText(&sb, labelWidth+valueWidth/2, b.ValueText)
	sb.WriteString("</g>\n</svg>\n")

	return sb.String()
}

func segmentWidth(text string) int {
	return utf8.RuneCountInString(text)*pixelsPerRune + segmentPad
}

// writeText draws the shadow one pixel lower first, then the solid text on top
func writeText(sb *strings.Builder, centerX int, text string) {
	escaped := textEscaper.Replace(text)
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>`, centerX, escaped))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="14">%s</text>`, centerX, escaped))
	sb.WriteString("\n")
}

// sanitizeComment breaks up any run of dashes so the embedded line can not
// terminate the XML comment early
func sanitizeComment(line string) string {
	for strings.Contains(line, "--") {
		line = strings.ReplaceAll(line, "--", "- -")
	}

	return line
}
