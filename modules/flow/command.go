package flow

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"
	"github.com/kaptinlin/jsonrepair"
	"github.com/specialistvlad/botgrid/internal/dispatch"
	"github.com/specialistvlad/botgrid/internal/node"
)

// Command is a movement instruction parsed from text.
type Command struct {
	Direction string
	Value     float64
}

// ParseCommand extracts a movement instruction from a text signal.
//
// Two shapes are understood: a JSON object {"direction": .., "value": ..},
// repaired first when a model produced it slightly malformed, and free text
// such as "go forward 10" or "turn left", where the first direction word wins
// and an optional number right after it is the value.
func ParseCommand(text string) (Command, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return Command{}, false
	}
	if strings.HasPrefix(s, "{") {
		return parseJSONCommand(s)
	}
	return parseTextCommand(s)
}

func parseJSONCommand(s string) (Command, bool) {
	var raw map[string]any
	if err := sonic.UnmarshalString(s, &raw); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(s)
		if rerr != nil {
			return Command{}, false
		}
		if err := sonic.UnmarshalString(repaired, &raw); err != nil {
			return Command{}, false
		}
	}

	word, _ := raw["direction"].(string)
	dir, ok := dispatch.NormalizeDirection(word)
	if !ok {
		return Command{}, false
	}
	value, _ := node.ToFloat(raw["value"])
	return Command{Direction: dir, Value: value}, true
}

func parseTextCommand(s string) (Command, bool) {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '-'
	})
	for i, w := range words {
		words[i] = strings.Trim(w, ".")
	}
	for i, w := range words {
		dir, ok := dispatch.NormalizeDirection(w)
		if !ok {
			continue
		}
		rest := words[i+1:]
		// "turn left" names the side to turn to.
		if dir == dispatch.Turn && len(rest) > 0 {
			if side, ok := dispatch.NormalizeDirection(rest[0]); ok && (side == dispatch.Left || side == dispatch.Right) {
				dir = side
				rest = rest[1:]
			}
		}
		cmd := Command{Direction: dir}
		if len(rest) > 0 {
			if v, err := strconv.ParseFloat(rest[0], 64); err == nil {
				cmd.Value = v
			}
		}
		return cmd, true
	}
	return Command{}, false
}
