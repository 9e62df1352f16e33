package render

import (
	"image/color"
	"slices"
)

// Element is one retained blob, addressed by the id of the particle it shows.
type Element struct {
	ID uint64

	X, Y   float64
	Size   float64
	ScaleX float64
	ScaleY float64

	Opacity float64
	Blur    float64
	Color   color.RGBA
	// Alpha is the base alpha of Color; it multiplies Opacity when painting.
	Alpha float64
}

// Scene is an id-keyed set of elements painted in creation order.
type Scene struct {
	elements map[uint64]*Element
	order    []uint64
}

func NewScene() *Scene {
	return &Scene{elements: make(map[uint64]*Element)}
}

// Upsert returns the element for id, creating it if needed.
func (s *Scene) Upsert(id uint64) (el *Element, created bool) {
	if el, ok := s.elements[id]; ok {
		return el, false
	}
	el = &Element{ID: id, ScaleX: 1, ScaleY: 1}
	s.elements[id] = el
	s.order = append(s.order, id)
	return el, true
}

// Get returns the element for id, if present.
func (s *Scene) Get(id uint64) (*Element, bool) {
	el, ok := s.elements[id]
	return el, ok
}

// Remove deletes the element for id. Unknown ids are ignored.
func (s *Scene) Remove(id uint64) {
	if _, ok := s.elements[id]; !ok {
		return
	}
	delete(s.elements, id)
	s.order = slices.DeleteFunc(s.order, func(v uint64) bool { return v == id })
}

// Sweep removes every element whose id keep rejects and returns how many went.
func (s *Scene) Sweep(keep func(id uint64) bool) int {
	removed := 0
	s.order = slices.DeleteFunc(s.order, func(id uint64) bool {
		if keep(id) {
			return false
		}
		delete(s.elements, id)
		removed++
		return true
	})
	return removed
}

// Clear removes every element.
func (s *Scene) Clear() {
	clear(s.elements)
	s.order = s.order[:0]
}

func (s *Scene) Len() int {
	return len(s.elements)
}

// IDs lists element ids in paint order.
func (s *Scene) IDs() []uint64 {
	return slices.Clone(s.order)
}

// Paint draws every element onto dst.
func (s *Scene) Paint(dst Surface) {
	for _, id := range s.order {
		el := s.elements[id]
		dst.Blob(Blob{
			X:      el.X,
			Y:      el.Y,
			Radius: el.Size / 2,
			ScaleX: el.ScaleX,
			ScaleY: el.ScaleY,
			Color:  el.Color,
			Alpha:  el.Opacity * el.Alpha,
			Blur:   el.Blur,
		})
	}
}
