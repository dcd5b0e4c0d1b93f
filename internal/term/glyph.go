// Package term renders a sim in a text terminal with termbox.
package term

import (
	"image/color"

	"github.com/nsf/termbox-go"
)

// Water shades from light to dark.
var waterRunes = [...]rune{'░', '▒', '▓', '█'}

func luminance(c color.RGBA) int {
	return (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
}

// Glyph maps a display color to a terminal cell. Blue dominant colors read
// as water shaded by depth, dark colors as solid, everything else as blank.
func Glyph(c color.RGBA) termbox.Cell {
	l := luminance(c)
	switch {
	case int(c.B) > int(c.R)+40 && c.B >= c.G:
		var r rune
		switch {
		case l > 150:
			r = waterRunes[0]
		case l > 110:
			r = waterRunes[1]
		case l > 75:
			r = waterRunes[2]
		default:
			r = waterRunes[3]
		}
		return termbox.Cell{Ch: r, Fg: termbox.ColorBlue, Bg: termbox.ColorDefault}
	case l < 96:
		return termbox.Cell{Ch: '█', Fg: termbox.ColorWhite, Bg: termbox.ColorDefault}
	default:
		return termbox.Cell{Ch: ' ', Fg: termbox.ColorDefault, Bg: termbox.ColorDefault}
	}
}
