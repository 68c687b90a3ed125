package setgame

import "fmt"

// Shape is the symbol drawn on a card.
type Shape int

const (
	Diamond Shape = iota
	Rect
	Bowtie
)

// Color is the ink color of a card's symbols.
type Color int

const (
	Blue Color = iota
	Green
	Purple
)

// Shading is the fill of a card's symbols.
type Shading int

const (
	Empty Shading = iota
	Semi
	Full
)

// Shapes, Colors and Shadings list every attribute value in id order.
var (
	Shapes   = []Shape{Diamond, Rect, Bowtie}
	Colors   = []Color{Blue, Green, Purple}
	Shadings = []Shading{Empty, Semi, Full}
)

var (
	shapeNames   = [...]string{"diamond", "rect", "bowtie"}
	colorNames   = [...]string{"blue", "green", "purple"}
	shadingNames = [...]string{"empty", "semi", "full"}
)

func (s Shape) String() string   { return attrName(shapeNames[:], int(s)) }
func (c Color) String() string   { return attrName(colorNames[:], int(c)) }
func (s Shading) String() string { return attrName(shadingNames[:], int(s)) }

// ParseShape parses a shape name.
func ParseShape(name string) (Shape, error) {
	i, err := parseAttr("shape", shapeNames[:], name)
	return Shape(i), err
}

// ParseColor parses a color name.
func ParseColor(name string) (Color, error) {
	i, err := parseAttr("color", colorNames[:], name)
	return Color(i), err
}

// ParseShading parses a shading name.
func ParseShading(name string) (Shading, error) {
	i, err := parseAttr("shading", shadingNames[:], name)
	return Shading(i), err
}

func attrName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func parseAttr(kind string, names []string, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, name)
}
