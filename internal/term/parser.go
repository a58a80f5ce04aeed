// internal/term/parser.go
package term

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/smash-editor/smash/internal/logger"
)

// EventKind tags parser events surfaced to the owning pane.
type EventKind int

const (
	EventOutput EventKind = iota
	EventBell
	EventTitleChanged
	EventExited
)

// Event is something the parser (or the owning pane) wants the
// application to react to.
type Event struct {
	Kind  EventKind
	Title string // EventTitleChanged
	Code  int    // EventExited
}

// parser states.
type parseState int

const (
	stateGround parseState = iota
	stateEscape
	stateCsi
	stateOsc
	stateEscIntermediate
)

// Parser is a byte-at-a-time VT escape-sequence state machine. Each fed
// byte either mutates the grid or accumulates sequence state.
type Parser struct {
	grid  *Grid
	state parseState

	params       []byte
	intermediate []byte
	osc          []byte
	oscEsc       bool // saw ESC inside OSC, waiting for terminator

	utf8Buf  []byte
	utf8Need int

	events []Event
}

// NewParser creates a parser driving the given grid.
func NewParser(grid *Grid) *Parser {
	return &Parser{grid: grid}
}

// Grid returns the grid the parser mutates.
func (p *Parser) Grid() *Grid { return p.grid }

// Feed processes a chunk of bytes and returns the events it produced.
func (p *Parser) Feed(data []byte) []Event {
	p.events = p.events[:0]
	for _, b := range data {
		p.step(b)
	}
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *Parser) emit(ev Event) { p.events = append(p.events, ev) }

func (p *Parser) step(b byte) {
	switch p.state {
	case stateGround:
		p.stepGround(b)
	case stateEscape:
		p.stepEscape(b)
	case stateCsi:
		p.stepCsi(b)
	case stateOsc:
		p.stepOsc(b)
	case stateEscIntermediate:
		// Charset designations: consume the single designator byte.
		p.state = stateGround
	}
}

func (p *Parser) stepGround(b byte) {
	// Continuation of a multi-byte UTF-8 sequence.
	if p.utf8Need > 0 {
		p.utf8Buf = append(p.utf8Buf, b)
		p.utf8Need--
		if p.utf8Need == 0 {
			r, _ := utf8.DecodeRune(p.utf8Buf)
			if r != utf8.RuneError {
				p.grid.WriteChar(r)
			}
			p.utf8Buf = p.utf8Buf[:0]
		}
		return
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
	case b == 0x07:
		p.emit(Event{Kind: EventBell})
	case b == 0x08:
		p.grid.Backspace()
	case b == 0x09:
		p.grid.Tab()
	case b == 0x0a, b == 0x0b, b == 0x0c:
		p.grid.LineFeed()
	case b == 0x0d:
		p.grid.CarriageReturn()
	case b >= 0x20 && b <= 0x7e:
		p.grid.WriteChar(rune(b))
	case b >= 0xc0:
		// UTF-8 lead byte; accumulate the full sequence so multi-byte
		// runes land in a single cell.
		p.utf8Buf = append(p.utf8Buf[:0], b)
		switch {
		case b >= 0xf0:
			p.utf8Need = 3
		case b >= 0xe0:
			p.utf8Need = 2
		default:
			p.utf8Need = 1
		}
	default:
		// Other C0 controls are ignored.
	}
}

func (p *Parser) stepEscape(b byte) {
	switch b {
	case '[':
		p.params = p.params[:0]
		p.intermediate = p.intermediate[:0]
		p.state = stateCsi
	case ']':
		p.osc = p.osc[:0]
		p.oscEsc = false
		p.state = stateOsc
	case '(', ')', '*', '+':
		p.state = stateEscIntermediate
	case '7':
		p.grid.SaveCursor()
		p.state = stateGround
	case '8':
		p.grid.RestoreCursor()
		p.state = stateGround
	case 'M':
		p.grid.ReverseIndex()
		p.state = stateGround
	case 'D':
		p.grid.LineFeed()
		p.state = stateGround
	case 'E':
		p.grid.CarriageReturn()
		p.grid.LineFeed()
		p.state = stateGround
	case 'c':
		p.grid.Reset()
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) stepCsi(b byte) {
	switch {
	case b >= '0' && b <= '9', b == ';':
		p.params = append(p.params, b)
	case b == '?', b == '>', b == '!', b == ' ', b == '"', b == '\'', b == '$':
		p.intermediate = append(p.intermediate, b)
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCsi(b)
		p.state = stateGround
	default:
		// Malformed; abandon the sequence.
		p.state = stateGround
	}
}

// csiParams parses the accumulated parameter buffer. Missing or empty
// parameters yield def.
func (p *Parser) csiParams(def int) []int {
	if len(p.params) == 0 {
		return []int{def}
	}
	parts := strings.Split(string(p.params), ";")
	out := make([]int, len(parts))
	for i, s := range parts {
		n, err := strconv.Atoi(s)
		if err != nil {
			n = def
		}
		out[i] = n
	}
	return out
}

func (p *Parser) dispatchCsi(final byte) {
	private := len(p.intermediate) > 0 && p.intermediate[0] == '?'
	switch final {
	case 'A':
		p.grid.CursorUp(p.csiParams(1)[0])
	case 'B':
		p.grid.CursorDown(p.csiParams(1)[0])
	case 'C':
		p.grid.CursorRight(p.csiParams(1)[0])
	case 'D':
		p.grid.CursorLeft(p.csiParams(1)[0])
	case 'H', 'f':
		params := p.csiParams(1)
		row := params[0]
		col := 1
		if len(params) > 1 {
			col = params[1]
		}
		p.grid.MoveCursor(max1(row)-1, max1(col)-1)
	case 'J':
		p.grid.EraseDisplay(p.csiParams(0)[0])
	case 'K':
		p.grid.EraseLine(p.csiParams(0)[0])
	case 'S':
		p.grid.ScrollUp(max1(p.csiParams(1)[0]))
	case 'T':
		p.grid.ScrollDown(max1(p.csiParams(1)[0]))
	case 'r':
		params := p.csiParams(0)
		top, bottom := 1, p.grid.rows
		if len(params) > 0 && params[0] > 0 {
			top = params[0]
		}
		if len(params) > 1 && params[1] > 0 {
			bottom = params[1]
		}
		p.grid.SetScrollRegion(top-1, bottom-1)
	case 'm':
		p.dispatchSgr()
	case 'h', 'l':
		if private {
			p.privateMode(p.csiParams(0), final == 'h')
		} else {
			logger.Debugf("term: ignoring mode sequence CSI %s %c", p.params, final)
		}
	case 'd':
		p.grid.SetRow(max1(p.csiParams(1)[0]) - 1)
	case 'G', '`':
		p.grid.SetColumn(max1(p.csiParams(1)[0]) - 1)
	default:
		logger.Debugf("term: ignoring CSI %s%s %c", p.intermediate, p.params, final)
	}
}

func (p *Parser) privateMode(params []int, set bool) {
	for _, mode := range params {
		switch mode {
		case 1049:
			if set {
				p.grid.EnterAlternate()
			} else {
				p.grid.LeaveAlternate()
			}
		case 25:
			// Cursor visibility; recognised but the grid has no visible
			// cursor of its own.
		default:
			logger.Debugf("term: ignoring private mode ?%d (set=%v)", mode, set)
		}
	}
}

func (p *Parser) dispatchSgr() {
	params := p.csiParams(0)
	for i := 0; i < len(params); i++ {
		n := params[i]
		switch {
		case n == 0:
			p.grid.ResetAttrs()
		case n == 1:
			p.grid.SetAttr(AttrBold)
		case n == 2:
			p.grid.SetAttr(AttrDim)
		case n == 3:
			p.grid.SetAttr(AttrItalic)
		case n == 4:
			p.grid.SetAttr(AttrUnderline)
		case n == 7:
			p.grid.SetAttr(AttrReverse)
		case n == 8:
			p.grid.SetAttr(AttrHidden)
		case n == 9:
			p.grid.SetAttr(AttrStrikethrough)
		case n == 22:
			p.grid.ClearAttr(AttrBold | AttrDim)
		case n == 23:
			p.grid.ClearAttr(AttrItalic)
		case n == 24:
			p.grid.ClearAttr(AttrUnderline)
		case n == 27:
			p.grid.ClearAttr(AttrReverse)
		case n == 28:
			p.grid.ClearAttr(AttrHidden)
		case n == 29:
			p.grid.ClearAttr(AttrStrikethrough)
		case n >= 30 && n <= 37:
			p.grid.SetFG(IndexedColor(uint8(n - 30)))
		case n == 39:
			p.grid.SetFG(Color{})
		case n >= 40 && n <= 47:
			p.grid.SetBG(IndexedColor(uint8(n - 40)))
		case n == 49:
			p.grid.SetBG(Color{})
		case n >= 90 && n <= 97:
			p.grid.SetFG(IndexedColor(uint8(n - 90 + 8)))
		case n >= 100 && n <= 107:
			p.grid.SetBG(IndexedColor(uint8(n - 100 + 8)))
		case n == 38 || n == 48:
			color, consumed, ok := extendedColor(params[i+1:])
			if !ok {
				return
			}
			if n == 38 {
				p.grid.SetFG(color)
			} else {
				p.grid.SetBG(color)
			}
			i += consumed
		default:
			logger.Debugf("term: ignoring SGR %d", n)
		}
	}
}

// extendedColor parses the 5;n (indexed) and 2;r;g;b (RGB) forms that
// follow SGR 38/48. Returns how many parameters were consumed.
func extendedColor(rest []int) (Color, int, bool) {
	if len(rest) == 0 {
		return Color{}, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) < 2 {
			return Color{}, 0, false
		}
		return IndexedColor(uint8(rest[1])), 2, true
	case 2:
		if len(rest) < 4 {
			return Color{}, 0, false
		}
		return RGBColor(uint8(rest[1]), uint8(rest[2]), uint8(rest[3])), 4, true
	default:
		return Color{}, 0, false
	}
}

func (p *Parser) stepOsc(b byte) {
	// OSC terminates on BEL or ESC \ (string terminator).
	if p.oscEsc {
		p.oscEsc = false
		if b == '\\' {
			p.dispatchOsc()
			p.state = stateGround
			return
		}
		// Not a terminator; drop the sequence and reprocess from escape.
		p.state = stateEscape
		p.stepEscape(b)
		return
	}
	switch b {
	case 0x07:
		p.dispatchOsc()
		p.state = stateGround
	case 0x1b:
		p.oscEsc = true
	default:
		p.osc = append(p.osc, b)
	}
}

func (p *Parser) dispatchOsc() {
	s := string(p.osc)
	prefix, rest, found := strings.Cut(s, ";")
	if !found {
		return
	}
	switch prefix {
	case "0", "2":
		p.grid.SetTitle(rest)
		p.emit(Event{Kind: EventTitleChanged, Title: rest})
	case "8":
		// OSC 8 ; params ; URI — record the URI on subsequent cells.
		_, uri, ok := strings.Cut(rest, ";")
		if !ok {
			return
		}
		p.grid.SetHyperlink(uri)
	default:
		logger.Debugf("term: ignoring OSC %q", prefix)
	}
}
