// Package dep implements a dependency structure as a set of typed links
// between the tokens of one phrase.
//
// The structure is a link set with derived indices rather than a tree: during
// projection a node may transiently have several parents.
package dep

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// RootType is the relation type of links created for self-headed tokens.
const RootType = "root"

// ErrCycle is returned by Depth when no root can be reached from a link.
var ErrCycle = errors.New("dependency cycle")

// Node is a token taking part in a dependency structure.
type Node interface {
	Index() int
	String() string
}

// Link attaches Child to Parent with a relation Type. A nil Parent marks a
// root link. Links are compared by value: the same pair with different types
// are two links.
type Link struct {
	Child  Node
	Parent Node
	Type   string
}

func (l Link) IsRoot() bool {
	return l.Parent == nil
}

func (l Link) String() string {
	parent := "ROOT"
	if l.Parent != nil {
		parent = l.Parent.String()
	}
	if l.Type == "" {
		return fmt.Sprintf("<dep %s --> %s>", l.Child, parent)
	}
	return fmt.Sprintf("<dep %s --> %s (%s)>", l.Child, parent, l.Type)
}

type linkSet map[Link]struct{}

// Structure is a mutable set of dependency links plus the child and parent
// indices kept in sync by Add and Remove.
type Structure struct {
	links linkSet

	// links where the key is the child
	up map[Node]linkSet

	// links where the key is the parent (nil for root links)
	down map[Node]linkSet
}

// New returns a structure holding the given links.
func New(links ...Link) *Structure {
	s := &Structure{
		links: linkSet{},
		up:    map[Node]linkSet{},
		down:  map[Node]linkSet{},
	}
	for _, l := range links {
		s.Add(l)
	}
	return s
}

// Add inserts l. Adding an existing link is a no-op.
func (s *Structure) Add(l Link) {
	if _, ok := s.links[l]; ok {
		return
	}
	s.links[l] = struct{}{}
	index(s.up, l.Child, l)
	index(s.down, l.Parent, l)
}

// Remove deletes l. Removing a missing link is a no-op.
func (s *Structure) Remove(l Link) {
	if _, ok := s.links[l]; !ok {
		return
	}
	delete(s.links, l)
	unindex(s.up, l.Child, l)
	unindex(s.down, l.Parent, l)
}

func index(m map[Node]linkSet, n Node, l Link) {
	set, ok := m[n]
	if !ok {
		set = linkSet{}
		m[n] = set
	}
	set[l] = struct{}{}
}

func unindex(m map[Node]linkSet, n Node, l Link) {
	delete(m[n], l)
	if len(m[n]) == 0 {
		delete(m, n)
	}
}

// Has reports whether l is in the structure.
func (s *Structure) Has(l Link) bool {
	_, ok := s.links[l]
	return ok
}

func (s *Structure) Len() int {
	return len(s.links)
}

// Links returns every link, sorted.
func (s *Structure) Links() []Link {
	return sorted(s.links)
}

// ParentLinks returns the links in which n is the child.
func (s *Structure) ParentLinks(n Node) []Link {
	return sorted(s.up[n])
}

// ChildLinks returns the links in which n is the parent.
func (s *Structure) ChildLinks(n Node) []Link {
	if n == nil {
		return nil
	}
	return sorted(s.down[n])
}

// Parents returns the distinct parents of n. Root links are skipped.
func (s *Structure) Parents(n Node) []Node {
	var nodes []Node
	for _, l := range s.ParentLinks(n) {
		if l.Parent != nil && !slices.Contains(nodes, l.Parent) {
			nodes = append(nodes, l.Parent)
		}
	}
	return nodes
}

// Children returns the distinct children of n.
func (s *Structure) Children(n Node) []Node {
	var nodes []Node
	for _, l := range s.ChildLinks(n) {
		if !slices.Contains(nodes, l.Child) {
			nodes = append(nodes, l.Child)
		}
	}
	return nodes
}

// Roots returns the children of root links.
func (s *Structure) Roots() []Node {
	var nodes []Node
	for l := range s.down[nil] {
		if !slices.Contains(nodes, l.Child) {
			nodes = append(nodes, l.Child)
		}
	}
	slices.SortFunc(nodes, compareNodes)
	return nodes
}

// Words returns every node referenced by a link, ordered by index.
func (s *Structure) Words() []Node {
	var nodes []Node
	for n := range s.up {
		nodes = append(nodes, n)
	}
	for n := range s.down {
		if n != nil && s.up[n] == nil {
			nodes = append(nodes, n)
		}
	}
	slices.SortFunc(nodes, compareNodes)
	return nodes
}

// Contains reports whether n takes part in any link.
func (s *Structure) Contains(n Node) bool {
	if n == nil {
		return false
	}
	return len(s.up[n]) > 0 || len(s.down[n]) > 0
}

// Copy returns a structure with new links over the same nodes.
func (s *Structure) Copy() *Structure {
	c := New()
	for l := range s.links {
		c.Add(Link{Child: l.Child, Parent: l.Parent, Type: l.Type})
	}
	return c
}

// Equal reports whether both structures hold the same links.
func (s *Structure) Equal(o *Structure) bool {
	if s.Len() != o.Len() {
		return false
	}
	for l := range s.links {
		if !o.Has(l) {
			return false
		}
	}
	return true
}

// Depth returns the number of parent hops from l to a root link, following
// the shortest path. Nodes are visited once, so cyclic branches are skipped;
// ErrCycle is returned only when no branch reaches a root.
func (s *Structure) Depth(l Link) (int, error) {
	if l.IsRoot() {
		return 0, nil
	}

	seen := map[Node]struct{}{l.Parent: {}}
	level := []Node{l.Parent}
	for d := 1; len(level) > 0; d++ {
		var next []Node
		for _, n := range level {
			for pl := range s.up[n] {
				if pl.IsRoot() {
					return d, nil
				}
				if _, ok := seen[pl.Parent]; ok {
					continue
				}
				seen[pl.Parent] = struct{}{}
				next = append(next, pl.Parent)
			}
		}
		level = next
	}

	return 0, fmt.Errorf("%w: %s -> %s", ErrCycle, l.Child, l.Parent)
}

// RemoveWord deletes every link where n is child or parent. With promote, the
// children of n are attached to each former parent of n, keeping their
// relation type; otherwise they are left without a parent.
func (s *Structure) RemoveWord(n Node, promote bool) {
	parentLinks := s.ParentLinks(n)
	childLinks := s.ChildLinks(n)

	for _, cl := range childLinks {
		s.Remove(cl)
		if !promote || cl.Child == n {
			continue
		}
		for _, pl := range parentLinks {
			if pl.Parent == n {
				continue
			}
			s.Add(Link{Child: cl.Child, Parent: pl.Parent, Type: cl.Type})
		}
	}

	for _, pl := range parentLinks {
		s.Remove(pl)
	}
}

// ReplaceWord adds, for every link touching src, the same link with dst in
// place of src. With remove the original links are deleted; without it dst
// becomes a sibling attachment of src.
func (s *Structure) ReplaceWord(src, dst Node, remove bool) {
	for _, cl := range s.ChildLinks(src) {
		if remove {
			s.Remove(cl)
		}
		s.Add(Link{Child: cl.Child, Parent: dst, Type: cl.Type})
	}

	for _, pl := range s.ParentLinks(src) {
		if remove {
			s.Remove(pl)
		}
		s.Add(Link{Child: dst, Parent: pl.Parent, Type: pl.Type})
	}
}

// String renders the structure as "[child->(parent,...), ...]".
func (s *Structure) String() string {
	var parts []string
	for _, n := range s.Words() {
		var parents []string
		for _, l := range s.ParentLinks(n) {
			if l.Parent == nil {
				parents = append(parents, "_ROOT_")
			} else {
				parents = append(parents, l.Parent.String())
			}
		}
		p := "None"
		if len(parents) > 0 {
			p = strings.Join(parents, ",")
		}
		parts = append(parts, fmt.Sprintf("%s->(%s)", n, p))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func sorted(set linkSet) []Link {
	links := make([]Link, 0, len(set))
	for l := range set {
		links = append(links, l)
	}
	slices.SortFunc(links, compareLinks)
	return links
}

func compareLinks(a, b Link) int {
	if c := compareNodes(a.Child, b.Child); c != 0 {
		return c
	}
	if c := compareNodes(a.Parent, b.Parent); c != 0 {
		return c
	}
	return strings.Compare(a.Type, b.Type)
}

// compareNodes orders by index then surface; nil sorts first.
func compareNodes(a, b Node) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if a.Index() != b.Index() {
		return a.Index() - b.Index()
	}
	return strings.Compare(a.String(), b.String())
}
