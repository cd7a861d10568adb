package diagram

// Palette is the cyclic participant color palette.
var Palette = []string{
	"#4e79a7",
	"#f28e2b",
	"#e15759",
	"#76b7b2",
	"#59a14f",
	"#edc948",
	"#b07aa1",
	"#ff9da7",
	"#9c755f",
	"#bab0ac",
}

// ColorFor returns the palette index and color for the n-th (0-based)
// participant in first-seen order.
func ColorFor(n int) (int, string) {
	i := n % len(Palette)
	if i < 0 {
		i += len(Palette)
	}
	return i, Palette[i]
}
