package flavor

import (
	"context"
	"fmt"
)

// staticLines keys on the item kind so the fallback still reads as if it were
// written for the item.
var staticLines = map[string]string{
	"health":      "Cold to the touch, yet it beats.",
	"damage":      "Still sharp after a hundred owners.",
	"speed":       "The soles never quite touch the ground.",
	"triple_shot": "It splits everything it swallows.",
	"piercing":    "Thin enough to find the gap in anything.",
	"big_tears":   "Heavy, and getting heavier.",
}

var staticTaunts = []string{
	"Another one crawls down to die.",
	"The depths keep what they are given.",
	"You smell of the rooms above. It will not save you.",
}

// Static is the no-dependency source used when no generator is configured and
// as the fallback when generation fails.
type Static struct {
	taunt int
}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) DescribeItem(_ context.Context, prompt ItemPrompt) (string, error) {
	if line, ok := staticLines[prompt.Kind]; ok {
		return line, nil
	}
	return fmt.Sprintf("The %s waits for a braver hand.", prompt.Name), nil
}

func (s *Static) BossTaunt(context.Context) (string, error) {
	line := staticTaunts[s.taunt%len(staticTaunts)]
	s.taunt++
	return line, nil
}
