// Package history provides a branching undo tree backed by a node arena.
package history

import (
	"time"

	"github.com/smash-editor/smash/internal/edit"
	"github.com/smash-editor/smash/internal/logger"
	"github.com/smash-editor/smash/internal/types"
)

// DefaultMaxNodes bounds the arena; the sentinel root is not counted
// against the limit, so the arena never exceeds DefaultMaxNodes+1 entries.
const DefaultMaxNodes = 10000

// Node is one recorded edit. Backward undoes it, Forward redoes it.
// Parent and Children are arena indices.
type Node struct {
	Backward     edit.Command
	Forward      edit.Command
	CursorBefore types.Position
	Parent       int
	Children     []int
	Timestamp    time.Time
}

// Tree is the undo history. Index 0 is a sentinel root with no commands.
type Tree struct {
	nodes    []Node
	current  int
	maxNodes int
}

// New creates an undo tree holding only the sentinel root.
func New() *Tree {
	return NewWithLimit(DefaultMaxNodes)
}

// NewWithLimit creates a tree bounded at the given node count (root excluded).
func NewWithLimit(maxNodes int) *Tree {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	t := &Tree{maxNodes: maxNodes}
	t.nodes = append(t.nodes, Node{Parent: -1, Timestamp: time.Now()})
	return t
}

// Len returns the number of nodes including the sentinel root.
func (t *Tree) Len() int { return len(t.nodes) }

// Current returns the index of the active node.
func (t *Tree) Current() int { return t.current }

// Record appends a new node under the current one and makes it current.
// Recording after an undo forms a branch; earlier children are kept.
func (t *Tree) Record(backward, forward edit.Command, cursorBefore types.Position) {
	node := Node{
		Backward:     backward,
		Forward:      forward,
		CursorBefore: cursorBefore,
		Parent:       t.current,
		Timestamp:    time.Now(),
	}
	t.nodes = append(t.nodes, node)
	idx := len(t.nodes) - 1
	t.nodes[t.current].Children = append(t.nodes[t.current].Children, idx)
	t.current = idx
	t.prune()
}

// Undo moves current to its parent and returns the backward command and
// the cursor position recorded before the edit. ok is false at the root.
func (t *Tree) Undo() (cmd edit.Command, cursorBefore types.Position, ok bool) {
	if t.current == 0 {
		return nil, types.Position{}, false
	}
	node := t.nodes[t.current]
	t.current = node.Parent
	return node.Backward, node.CursorBefore, true
}

// Redo moves current to its most recently added child and returns that
// child's forward command. ok is false when current has no children.
func (t *Tree) Redo() (cmd edit.Command, ok bool) {
	children := t.nodes[t.current].Children
	if len(children) == 0 {
		return nil, false
	}
	next := children[len(children)-1]
	t.current = next
	return t.nodes[next].Forward, true
}

// CanUndo reports whether current has a parent to return to.
func (t *Tree) CanUndo() bool { return t.current != 0 }

// CanRedo reports whether current has at least one child.
func (t *Tree) CanRedo() bool { return len(t.nodes[t.current].Children) > 0 }

// Clear resets the tree to a lone sentinel root. Call on file load.
func (t *Tree) Clear() {
	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, Node{Parent: -1, Timestamp: time.Now()})
	t.current = 0
}

// prune keeps the arena under maxNodes. Phase one removes leaves off the
// current path (oldest first); phase two splices the oldest node adjacent
// to the root by re-parenting its children.
func (t *Tree) prune() {
	if len(t.nodes)-1 <= t.maxNodes {
		return
	}
	onPath := t.pathSet()

	// Phase 1: drop off-path leaves, oldest first.
	for len(t.nodes)-1 > t.maxNodes {
		victim := -1
		var oldest time.Time
		for i := 1; i < len(t.nodes); i++ {
			if onPath[i] || len(t.nodes[i].Children) != 0 {
				continue
			}
			if victim == -1 || t.nodes[i].Timestamp.Before(oldest) {
				victim = i
				oldest = t.nodes[i].Timestamp
			}
		}
		if victim == -1 {
			break
		}
		t.remove(victim)
		onPath = t.pathSet()
	}

	// Phase 2: splice the oldest child of the root.
	for len(t.nodes)-1 > t.maxNodes {
		rootChildren := t.nodes[0].Children
		if len(rootChildren) == 0 {
			break
		}
		victim := rootChildren[0]
		for _, c := range rootChildren {
			if t.nodes[c].Timestamp.Before(t.nodes[victim].Timestamp) {
				victim = c
			}
		}
		if victim == t.current {
			logger.Warnf("history: current node %d reached the prune frontier", victim)
			break
		}
		t.splice(victim)
	}
}

// pathSet marks every node on the root..current path.
func (t *Tree) pathSet() map[int]bool {
	onPath := make(map[int]bool, 16)
	for i := t.current; i != -1; i = t.nodes[i].Parent {
		onPath[i] = true
	}
	return onPath
}

// splice removes a node by attaching its children to its parent.
func (t *Tree) splice(idx int) {
	node := t.nodes[idx]
	parent := node.Parent
	t.detachFromParent(idx)
	for _, c := range node.Children {
		t.nodes[c].Parent = parent
		t.nodes[parent].Children = append(t.nodes[parent].Children, c)
	}
	t.nodes[idx].Children = nil
	t.swapRemove(idx)
}

// remove deletes a leaf node.
func (t *Tree) remove(idx int) {
	t.detachFromParent(idx)
	t.swapRemove(idx)
}

func (t *Tree) detachFromParent(idx int) {
	parent := t.nodes[idx].Parent
	if parent < 0 {
		return
	}
	siblings := t.nodes[parent].Children
	for i, c := range siblings {
		if c == idx {
			t.nodes[parent].Children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
}

// swapRemove moves the last node into idx and fixes every index that
// referenced it. O(children) per removal.
func (t *Tree) swapRemove(idx int) {
	last := len(t.nodes) - 1
	if idx != last {
		moved := t.nodes[last]
		t.nodes[idx] = moved
		// Fix the moved node's parent reference.
		if moved.Parent >= 0 {
			siblings := t.nodes[moved.Parent].Children
			for i, c := range siblings {
				if c == last {
					siblings[i] = idx
					break
				}
			}
		}
		// Fix the moved node's children.
		for _, c := range moved.Children {
			t.nodes[c].Parent = idx
		}
		if t.current == last {
			t.current = idx
		}
	}
	t.nodes = t.nodes[:last]
}
