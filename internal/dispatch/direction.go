package dispatch

import "strings"

// Canonical movement directions.
const (
	Forward = "forward"
	Back    = "back"
	Left    = "left"
	Right   = "right"
	Turn    = "turn"
	Stop    = "stop"
)

var directionWords = map[string]string{
	"forward":   Forward,
	"forwards":  Forward,
	"ahead":     Forward,
	"back":      Back,
	"backward":  Back,
	"backwards": Back,
	"reverse":   Back,
	"left":      Left,
	"right":     Right,
	"turn":      Turn,
	"stop":      Stop,
	"halt":      Stop,
}

// NormalizeDirection maps a direction word to its canonical form.
func NormalizeDirection(word string) (string, bool) {
	d, ok := directionWords[strings.ToLower(strings.TrimSpace(word))]
	return d, ok
}
