// Package body defines the celestial bodies and view perspectives the viewer knows about.
package body

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned when parsing a name that is not part of a closed enumeration.
var ErrUnknown = errors.New("unknown value")

// Body identifies one of the celestial objects in the scene.
type Body string

const (
	Moon  Body = "moon"
	Earth Body = "earth"
	Mars  Body = "mars"
	Sun   Body = "sun"
)

// all is the canonical selector order.
var all = []Body{Moon, Earth, Mars, Sun}

// All returns every body in selector order.
func All() []Body {
	out := make([]Body, len(all))
	copy(out, all)
	return out
}

// Valid reports whether b is one of the known bodies.
func (b Body) Valid() bool {
	return b.Index() >= 0
}

// Index returns the selector position of b, or -1 if b is unknown.
func (b Body) Index() int {
	for i, v := range all {
		if v == b {
			return i
		}
	}
	return -1
}

func (b Body) String() string {
	return string(b)
}

// Next returns the body after b in selector order, wrapping around.
func (b Body) Next() Body {
	i := b.Index()
	if i < 0 {
		return all[0]
	}
	return all[(i+1)%len(all)]
}

// Prev returns the body before b in selector order, wrapping around.
func (b Body) Prev() Body {
	i := b.Index()
	if i < 0 {
		return all[0]
	}
	return all[(i+len(all)-1)%len(all)]
}

// ParseBody parses a body name. Matching is case-insensitive.
func ParseBody(s string) (Body, error) {
	b := Body(strings.ToLower(strings.TrimSpace(s)))
	if !b.Valid() {
		return "", fmt.Errorf("body %q: %w", s, ErrUnknown)
	}
	return b, nil
}

// Perspective is the camera vantage point relative to the selected body.
type Perspective string

const (
	NorthPole Perspective = "north-pole"
	SouthPole Perspective = "south-pole"
	Equator   Perspective = "equator"
)

var perspectives = []Perspective{NorthPole, SouthPole, Equator}

// Perspectives returns every perspective in selector order.
func Perspectives() []Perspective {
	out := make([]Perspective, len(perspectives))
	copy(out, perspectives)
	return out
}

// Valid reports whether p is one of the known perspectives.
func (p Perspective) Valid() bool {
	return p.Index() >= 0
}

// Index returns the selector position of p, or -1 if p is unknown.
func (p Perspective) Index() int {
	for i, v := range perspectives {
		if v == p {
			return i
		}
	}
	return -1
}

func (p Perspective) String() string {
	return string(p)
}

// Next returns the perspective after p, wrapping around.
func (p Perspective) Next() Perspective {
	i := p.Index()
	if i < 0 {
		return perspectives[0]
	}
	return perspectives[(i+1)%len(perspectives)]
}

// ParsePerspective parses a perspective name. Underscores and spaces are
// accepted in place of the hyphen ("north_pole", "south pole").
func ParsePerspective(s string) (Perspective, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("_", "-", " ", "-").Replace(norm)
	p := Perspective(norm)
	if !p.Valid() {
		return "", fmt.Errorf("perspective %q: %w", s, ErrUnknown)
	}
	return p, nil
}
