package setgame

// IsSet reports whether three cards form a set: for each of shape, color,
// shading and count the three values are all equal or all different.
func IsSet(a, b, c Card) bool {
	return valid(a.Shape, b.Shape, c.Shape) &&
		valid(a.Color, b.Color, c.Color) &&
		valid(a.Shading, b.Shading, c.Shading) &&
		valid(a.Count, b.Count, c.Count)
}

// valid is false exactly when two of the three values agree and the third
// differs, i.e. when there are two distinct values.
func valid[T comparable](x, y, z T) bool {
	return distinct(x, y, z) != 2
}

func distinct[T comparable](x, y, z T) int {
	switch {
	case x == y && y == z:
		return 1
	case x == y || y == z || x == z:
		return 2
	default:
		return 3
	}
}
