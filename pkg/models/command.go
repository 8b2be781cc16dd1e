package models

import (
	"fmt"
	"strconv"
	"strings"
)

// CommandType is one of the three command cards a player plays each round.
type CommandType int

const (
	// Expand adds ships to hexes the player already controls.
	Expand CommandType = iota + 1
	// Explore moves ships one hex at a time.
	Explore
	// Exterminate attacks adjacent hexes.
	Exterminate
)

// CommandTypes lists the commands in matrix row order.
var CommandTypes = [3]CommandType{Expand, Explore, Exterminate}

// String returns a human-readable representation of the command.
func (c CommandType) String() string {
	switch c {
	case Expand:
		return "Expand"
	case Explore:
		return "Explore"
	case Exterminate:
		return "Exterminate"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the three commands.
func (c CommandType) Valid() bool { return c >= Expand && c <= Exterminate }

// Index returns the zero-based matrix row of c.
func (c CommandType) Index() int { return int(c) - 1 }

// ParseCommandType accepts a command number (1-3) or a case-insensitive name
// or its first letter.
func ParseCommandType(text string) (CommandType, error) {
	text = strings.TrimSpace(text)
	if n, err := strconv.Atoi(text); err == nil {
		if c := CommandType(n); c.Valid() {
			return c, nil
		}
		return 0, fmt.Errorf("unknown command %d", n)
	}
	switch strings.ToLower(text) {
	case "expand", "x":
		return Expand, nil
	case "explore", "e":
		return Explore, nil
	case "exterminate", "t":
		return Exterminate, nil
	}
	return 0, fmt.Errorf("unknown command %q", text)
}

// CommandOrder is the order in which a player plays the three commands in a round.
type CommandOrder [3]CommandType

// Validate checks that the order is a permutation of the three commands.
func (o CommandOrder) Validate() error {
	var seen [3]bool
	for slot, c := range o {
		if !c.Valid() {
			return fmt.Errorf("slot %d: unknown command %d", slot+1, int(c))
		}
		if seen[c.Index()] {
			return fmt.Errorf("slot %d: %s chosen twice", slot+1, c)
		}
		seen[c.Index()] = true
	}
	return nil
}

// SlotOf returns the zero-based slot holding c, or -1.
func (o CommandOrder) SlotOf(c CommandType) int {
	for i, x := range o {
		if x == c {
			return i
		}
	}
	return -1
}

func (o CommandOrder) String() string {
	return fmt.Sprintf("[%s %s %s]", o[0], o[1], o[2])
}
