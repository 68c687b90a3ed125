package theme

// Palette colors for the built-in themes.
var (
	Green  = RGBA{Red: 0.20, Green: 0.78, Blue: 0.35, Alpha: 1}
	Orange = RGBA{Red: 1.00, Green: 0.58, Blue: 0.00, Alpha: 1}
	Red    = RGBA{Red: 1.00, Green: 0.23, Blue: 0.19, Alpha: 1}
	Blue   = RGBA{Red: 0.00, Green: 0.48, Blue: 1.00, Alpha: 1}
	Yellow = RGBA{Red: 1.00, Green: 0.80, Blue: 0.00, Alpha: 1}
	Purple = RGBA{Red: 0.69, Green: 0.32, Blue: 0.87, Alpha: 1}
)

// Builtins returns the default theme set. Each call returns fresh ids.
func Builtins() []Theme {
	return []Theme{
		New("Animals", Green, 4, []string{
			"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼", "🐻‍❄️", "🐨", "🐯",
			"🦁", "🐮", "🐷", "🐽", "🐸", "🐵", "🐔", "🐧", "🐦", "🐤", "🐥",
			"🪿", "🦆", "🐦‍⬛", "🦅", "🦉", "🦇", "🐺", "🐗", "🐴", "🦄", "🫎",
		}),
		New("Halloween", Orange, 8, []string{
			"🎃", "😈", "👹", "👻", "💀", "😺", "👽", "🧟‍♀️", "🧛", "🧌", "🧙‍♂️",
		}),
		New("Vehicles", Red, 10, []string{
			"🚗", "🚕", "🚙", "🚌", "🚎", "🏎️", "🚓", "🚑", "🚒", "🚐", "🛻",
			"🚚", "🚛", "🚜", "✈️", "🚀", "🚁",
		}),
		New("Sports", Blue, 14, []string{
			"⚽️", "🏀", "🏈", "⚾️", "🥎", "🎾", "🏐", "🏉", "🥏", "🎱", "🪀",
			"🏓", "🥊", "🥌",
		}),
		NewRandomPairs("Food", Yellow, []string{
			"🍏", "🍎", "🍐", "🍊", "🍋", "🥑", "🍌", "🍉", "🍇", "🍓", "🫐",
			"🍒", "🍑", "🥝", "🥥", "🌮", "🍗", "🍔", "🥨", "🌶️", "🍿", "🍕", "🌽",
		}),
		NewRandomPairs("Plants", Purple, []string{
			"🌵", "🌲", "🌳", "🌴", "🌱", "🌿", "☘️", "🍀", "🪴", "🍄", "🌹",
			"🥀", "🌺", "🌻", "🌼",
		}),
	}
}
