package theme

type Color struct {
	R, G, B uint8
}

type Theme interface {
	RenderMine(column int) string
	RenderNote(column int, denom int) string
	RenderHold(column int, denom int) string
	RenderHitField(column int, pressed bool) string
}
