// internal/input/resolver.go
package input

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/smash-editor/smash/internal/logger"
)

// Stroke is one normalised key press. Runes are stored lowercase with
// Shift folded into the rune itself.
type Stroke struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// encode renders a stroke as a stable map key ("ctrl+s", "up", "g").
func (s Stroke) encode() string {
	var b strings.Builder
	if s.Mod&tcell.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if s.Mod&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if s.Key == tcell.KeyRune {
		b.WriteRune(s.Rune)
	} else {
		b.WriteString(tcell.KeyNames[s.Key])
	}
	return strings.ToLower(b.String())
}

// Layer is one keymap: stroke sequences (space-separated encoded
// strokes) mapped to actions.
type Layer struct {
	Name     string
	Bindings map[string]Action
}

// Resolver matches incoming strokes against a stack of layers, topmost
// first. Multi-stroke sequences accumulate in a pending buffer until
// they match exactly, can no longer match anything, or time out at the
// caller's discretion (the resolver itself is clock-free). Unmatched
// printable runes resolve to ActionInsertChar.
type Resolver struct {
	layers  []*Layer
	pending []string
}

// NewResolver creates a resolver with the default layer installed.
func NewResolver() *Resolver {
	r := &Resolver{}
	r.Push(defaultLayer())
	return r
}

// Push installs a layer on top of the stack.
func (r *Resolver) Push(layer *Layer) {
	r.layers = append(r.layers, layer)
	r.pending = nil
}

// Pop removes the top layer. The base layer cannot be removed.
func (r *Resolver) Pop() {
	if len(r.layers) > 1 {
		r.layers = r.layers[:len(r.layers)-1]
	}
	r.pending = nil
}

// Bind adds or overrides a binding on the top layer. Sequences use
// space-separated strokes, e.g. "ctrl+k ctrl+s".
func (r *Resolver) Bind(sequence string, action Action) {
	top := r.layers[len(r.layers)-1]
	top.Bindings[strings.ToLower(sequence)] = action
}

// Resolve feeds one key event through the layer stack.
func (r *Resolver) Resolve(ev *tcell.EventKey) ActionEvent {
	stroke := normalize(ev)
	r.pending = append(r.pending, stroke.encode())
	seq := strings.Join(r.pending, " ")

	exact := ActionUnknown
	prefix := false
	for i := len(r.layers) - 1; i >= 0; i-- {
		for bound, action := range r.layers[i].Bindings {
			if bound == seq && exact == ActionUnknown {
				exact = action
			} else if strings.HasPrefix(bound, seq+" ") {
				prefix = true
			}
		}
		if exact != ActionUnknown {
			break
		}
	}

	switch {
	case exact != ActionUnknown && !prefix:
		r.pending = nil
		if exact == ActionInsertChar {
			return ActionEvent{Action: exact, Rune: stroke.Rune}
		}
		return ActionEvent{Action: exact}
	case exact != ActionUnknown:
		// Exact match shadowed by a longer candidate: take the match.
		// Sequences here are short; greedy resolution keeps single-key
		// bindings responsive.
		r.pending = nil
		return ActionEvent{Action: exact}
	case prefix:
		return ActionEvent{Action: ActionPending}
	}

	if len(r.pending) > 1 {
		logger.Debugf("input: unmatched sequence %q", seq)
	}
	r.pending = nil
	if stroke.Key == tcell.KeyRune && stroke.Mod&^tcell.ModShift == 0 {
		return ActionEvent{Action: ActionInsertChar, Rune: stroke.Rune}
	}
	return ActionEvent{Action: ActionUnknown}
}

// normalize folds tcell's KeyCtrlX aliases into rune+modifier form so
// bindings read uniformly.
func normalize(ev *tcell.EventKey) Stroke {
	key := ev.Key()
	mod := ev.Modifiers()
	r := ev.Rune()
	// Fold KeyCtrlX aliases into rune+modifier, except the control
	// bytes that double as Backspace, Tab, and Enter.
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ &&
		key != tcell.KeyBackspace && key != tcell.KeyTab && key != tcell.KeyEnter {
		r = rune('a' + key - tcell.KeyCtrlA)
		mod |= tcell.ModCtrl
		key = tcell.KeyRune
	}
	return Stroke{Key: key, Rune: r, Mod: mod}
}

func defaultLayer() *Layer {
	return &Layer{
		Name: "default",
		Bindings: map[string]Action{
			"ctrl+q": ActionQuit,
			"ctrl+s": ActionSave,

			"up":    ActionMoveUp,
			"down":  ActionMoveDown,
			"left":  ActionMoveLeft,
			"right": ActionMoveRight,
			"pgup":  ActionMovePageUp,
			"pgdn":  ActionMovePageDown,
			"home":  ActionMoveHome,
			"end":   ActionMoveEnd,

			"enter":      ActionInsertNewLine,
			"delete":     ActionDeleteCharForward,
			"backspace":  ActionDeleteCharBackward,
			"backspace2": ActionDeleteCharBackward,
			"tab":        ActionIndent,
			"backtab":    ActionOutdent,

			"ctrl+z": ActionUndo,
			"ctrl+y": ActionRedo,

			"ctrl+c": ActionCopy,
			"ctrl+x": ActionCut,
			"ctrl+v": ActionPaste,
			"ctrl+a": ActionSelectAll,

			"ctrl+f": ActionSearchPrompt,
			"f3":     ActionSearchNext,
			"ctrl+n": ActionSearchNext,
			"ctrl+p": ActionSearchPrev,

			"ctrl+o":      ActionCompletion,
			"ctrl+k h":    ActionHover,
			"ctrl+k d":    ActionGotoDefinition,
			"ctrl+k f":    ActionFormat,
			"ctrl+k home": ActionMoveFileStart,
			"ctrl+k end":  ActionMoveFileEnd,

			"ctrl+t": ActionToggleTerminal,

			"esc": ActionCancel,
		},
	}
}

// EmacsLayer and VimLayer are thin overlays over the default bindings
// for the keymap presets.
func EmacsLayer() *Layer {
	return &Layer{
		Name: "emacs",
		Bindings: map[string]Action{
			"ctrl+p":        ActionMoveUp,
			"ctrl+n":        ActionMoveDown,
			"ctrl+b":        ActionMoveLeft,
			"ctrl+f":        ActionMoveRight,
			"ctrl+e":        ActionMoveEnd,
			"ctrl+d":        ActionDeleteCharForward,
			"ctrl+s":        ActionSearchPrompt,
			"ctrl+x ctrl+s": ActionSave,
			"ctrl+x ctrl+c": ActionQuit,
			"ctrl+_":        ActionUndo,
		},
	}
}

func VimLayer() *Layer {
	return &Layer{
		Name: "vim",
		Bindings: map[string]Action{
			"g g": ActionMoveFileStart,
		},
	}
}

// LayerForPreset maps a keymap preset name to its overlay, nil for the
// default preset.
func LayerForPreset(preset string) *Layer {
	switch preset {
	case "emacs":
		return EmacsLayer()
	case "vim":
		return VimLayer()
	default:
		return nil
	}
}
