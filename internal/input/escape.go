// internal/input/escape.go
package input

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// EncodeKey translates a key event into the byte sequence a terminal
// application expects on its pty: control letters as 0x01..0x1A,
// cursor keys as CSI final bytes, function keys as their usual CSI/SS3
// sequences, Alt-prefixed runes as ESC + rune.
func EncodeKey(ev *tcell.EventKey) []byte {
	key := ev.Key()
	mod := ev.Modifiers()

	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return []byte{byte(key)}
	}

	switch key {
	case tcell.KeyUp:
		return []byte("\x1b[A")
	case tcell.KeyDown:
		return []byte("\x1b[B")
	case tcell.KeyRight:
		return []byte("\x1b[C")
	case tcell.KeyLeft:
		return []byte("\x1b[D")
	case tcell.KeyHome:
		return []byte("\x1b[H")
	case tcell.KeyEnd:
		return []byte("\x1b[F")
	case tcell.KeyPgUp:
		return []byte("\x1b[5~")
	case tcell.KeyPgDn:
		return []byte("\x1b[6~")
	case tcell.KeyInsert:
		return []byte("\x1b[2~")
	case tcell.KeyDelete:
		return []byte("\x1b[3~")
	case tcell.KeyEscape:
		return []byte{0x1b}
	case tcell.KeyBackspace2:
		return []byte{0x7f}
	case tcell.KeyF1:
		return []byte("\x1bOP")
	case tcell.KeyF2:
		return []byte("\x1bOQ")
	case tcell.KeyF3:
		return []byte("\x1bOR")
	case tcell.KeyF4:
		return []byte("\x1bOS")
	}
	if key >= tcell.KeyF5 && key <= tcell.KeyF12 {
		codes := map[tcell.Key]int{
			tcell.KeyF5: 15, tcell.KeyF6: 17, tcell.KeyF7: 18, tcell.KeyF8: 19,
			tcell.KeyF9: 20, tcell.KeyF10: 21, tcell.KeyF11: 23, tcell.KeyF12: 24,
		}
		return []byte(fmt.Sprintf("\x1b[%d~", codes[key]))
	}

	if key == tcell.KeyRune {
		encoded := []byte(string(ev.Rune()))
		if mod&tcell.ModAlt != 0 {
			return append([]byte{0x1b}, encoded...)
		}
		return encoded
	}
	return nil
}
