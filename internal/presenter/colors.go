package presenter

import (
	"fmt"

	"CryptoDashboard/internal/model"
)

// Colours used at the rendering boundary.
const (
	ColorUp      = "green"
	ColorDown    = "red"
	ColorNeutral = "black"
	ColorHeader  = "dimgrey"
	ColorText    = "white"
)

// averageColors assigns a fixed colour per moving-average window.
var averageColors = map[int]string{
	20:  "yellow",
	50:  "green",
	100: "red",
}

// ClassColor maps a ColorClass onto its display colour.
func ClassColor(c model.ColorClass) string {
	if c == model.Down {
		return ColorDown
	}
	return ColorUp
}

// AverageColor returns the overlay colour for window, grey for unknown windows.
func AverageColor(window int) string {
	if c, ok := averageColors[window]; ok {
		return c
	}
	return "grey"
}

func averageName(window int) string {
	return fmt.Sprintf("MA%d", window)
}
