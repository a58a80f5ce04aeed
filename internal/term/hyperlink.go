// internal/term/hyperlink.go
package term

import "regexp"

// Link is a clickable region found on a grid row, spanning columns
// [StartCol, EndCol).
type Link struct {
	URI      string
	StartCol int
	EndCol   int // exclusive
}

var (
	urlPattern  = regexp.MustCompile(`(https?|ftp|file)://[^\s<>"')\]]+`)
	pathPattern = regexp.MustCompile(`/[a-zA-Z0-9_\-./]+\.[a-zA-Z0-9]+(:\d+(:\d+)?)?`)
)

// DetectLinks scans one grid row for hyperlinks. Explicit OSC 8
// annotations on the cells win; regex URL matches come next, then path
// matches that do not overlap any URL match.
func DetectLinks(g *Grid, row int) []Link {
	var out []Link

	// OSC 8 cells first.
	cells := g.Row(row)
	for col := 0; col < len(cells); {
		uri := cells[col].Hyperlink
		if uri == "" {
			col++
			continue
		}
		start := col
		for col < len(cells) && cells[col].Hyperlink == uri {
			col++
		}
		out = append(out, Link{URI: uri, StartCol: start, EndCol: col})
	}

	text := g.RowText(row)
	urlLocs := urlPattern.FindAllStringIndex(text, -1)
	for _, loc := range urlLocs {
		out = append(out, linkAt(text, loc))
	}
	for _, loc := range pathPattern.FindAllStringIndex(text, -1) {
		if overlapsAny(loc, urlLocs) {
			continue
		}
		out = append(out, linkAt(text, loc))
	}
	return out
}

// linkAt converts a byte-offset match to column numbers. Cells hold one
// rune each, so a column is a rune index into the row text.
func linkAt(text string, loc []int) Link {
	return Link{
		URI:      text[loc[0]:loc[1]],
		StartCol: len([]rune(text[:loc[0]])),
		EndCol:   len([]rune(text[:loc[1]])),
	}
}

func overlapsAny(loc []int, against [][]int) bool {
	for _, other := range against {
		if loc[0] < other[1] && other[0] < loc[1] {
			return true
		}
	}
	return false
}
