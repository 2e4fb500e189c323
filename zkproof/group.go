package zkproof

import (
	"github.com/gtank/ristretto255"
)

// Group is a named set of fixed ristretto255 generators.
type Group struct {
	names []string
	bases map[string]*ristretto255.Element
}

func NewGroup() *Group {
	return &Group{bases: map[string]*ristretto255.Element{}}
}

// With registers base under name and returns the group. Registering a name
// twice replaces the earlier base.
func (g *Group) With(name string, base *ristretto255.Element) *Group {
	if _, ok := g.bases[name]; !ok {
		g.names = append(g.names, name)
	}
	g.bases[name] = base
	return g
}

func (g *Group) ScalarMult(ret *ristretto255.Element, name string, s *ristretto255.Scalar) bool {
	base := g.Base(name)
	if base == nil {
		return false
	}
	ret.ScalarMult(s, base)
	return true
}

func (g *Group) Names() []string {
	return g.names
}

func (g *Group) Base(name string) *ristretto255.Element {
	return g.bases[name]
}
