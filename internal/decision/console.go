package decision

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gravitas-games/triprime/internal/engine"
	"github.com/gravitas-games/triprime/pkg/hex"
	"github.com/gravitas-games/triprime/pkg/models"
	"github.com/rs/zerolog"
)

var errSkip = errors.New("skip")

// Console asks a human at a terminal. Skippable questions accept "skip" or an
// empty line. When the input is exhausted every remaining question goes to
// Fallback.
type Console struct {
	name     string
	in       *bufio.Reader
	out      io.Writer
	fallback engine.DecisionSource
	log      zerolog.Logger
	closed   bool
}

// NewConsole creates a console player reading from in and prompting on out.
func NewConsole(name string, in io.Reader, out io.Writer, fallback engine.DecisionSource, log zerolog.Logger) *Console {
	return &Console{name: name, in: bufio.NewReader(in), out: out, fallback: fallback, log: log}
}

// readLine prompts and returns the trimmed reply. ok is false once the input
// is closed.
func (c *Console) readLine(format string, args ...any) (string, bool) {
	if c.closed {
		return "", false
	}
	fmt.Fprintf(c.out, "[%s] "+format+": ", append([]any{c.name}, args...)...)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		c.closed = true
		c.log.Warn().Err(err).Str("player", c.name).Msg("console input closed, handing over to fallback")
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) showBoard(v engine.View) {
	occ := v.Occupation()
	c.printf("Round %d. Occupied hexes:\n", v.Round())
	for _, pos := range occ.Occupied() {
		info, _ := occ.InfoAt(pos)
		sector, _ := v.Board().SectorAt(pos)
		mine := ""
		if info.Owner == v.Self() {
			mine = " *"
		}
		c.printf("  %v L%d player %d: %d ship(s)%s\n", pos, sector.Level, info.Owner, len(info.Ships), mine)
	}
}

// ChooseCommandOrder reads three commands, by number or name.
func (c *Console) ChooseCommandOrder(v engine.View) models.CommandOrder {
	c.showBoard(v)
	line, ok := c.readLine("command order, e.g. \"1 2 3\" or \"explore expand exterminate\"")
	if !ok {
		return c.fallback.ChooseCommandOrder(v)
	}
	var order models.CommandOrder
	fields := strings.Fields(line)
	if len(fields) != len(order) {
		c.printf("need three commands, got %d\n", len(fields))
		return order
	}
	for i, f := range fields {
		cmd, err := models.ParseCommandType(f)
		if err != nil {
			c.printf("%v\n", err)
			return models.CommandOrder{}
		}
		order[i] = cmd
	}
	return order
}

// ChooseSectorForPlacement reads a card label.
func (c *Console) ChooseSectorForPlacement(v engine.View, available []string) string {
	line, ok := c.readLine("place ships in card %v", available)
	if !ok {
		return c.fallback.ChooseSectorForPlacement(v, available)
	}
	return strings.ToLower(line)
}

// ChooseHexForPlacement reads a list number or a coordinate.
func (c *Console) ChooseHexForPlacement(v engine.View, candidates []hex.Coord) hex.Coord {
	for i, h := range candidates {
		c.printf("  %d) %v\n", i+1, h)
	}
	line, ok := c.readLine("placement hex")
	if !ok {
		return c.fallback.ChooseHexForPlacement(v, candidates)
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(candidates) {
		return candidates[n-1]
	}
	h, err := hex.Parse(line)
	if err != nil {
		c.printf("%v\n", err)
	}
	return h
}

// ChooseExpandTarget reads "q r s [count]".
func (c *Console) ChooseExpandTarget(v engine.View, controlled []hex.Coord, remaining int) (engine.ExpandChoice, bool) {
	for {
		line, ok := c.readLine("expand: hex and count (%d left) from %v, or skip", remaining, controlled)
		if !ok {
			return c.fallback.ChooseExpandTarget(v, controlled, remaining)
		}
		nums, err := parseInts(line, 3, 4)
		if errors.Is(err, errSkip) {
			return engine.ExpandChoice{}, false
		}
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		target, err := hex.New(nums[0], nums[1], nums[2])
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		count := 1
		if len(nums) == 4 {
			count = nums[3]
		}
		return engine.ExpandChoice{Target: target, Count: count}, true
	}
}

// ChooseMoveTarget reads the next hex for ship.
func (c *Console) ChooseMoveTarget(v engine.View, ship models.Ship, remaining int) (hex.Coord, bool) {
	for {
		line, ok := c.readLine("move ship %s at %v (%d moves left): hex or skip", ship.Label(), ship.Pos, remaining)
		if !ok {
			return c.fallback.ChooseMoveTarget(v, ship, remaining)
		}
		if isSkip(line) {
			return hex.Coord{}, false
		}
		target, err := hex.Parse(line)
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		return target, true
	}
}

// ChooseAttack reads "ship q r s [commit]".
func (c *Console) ChooseAttack(v engine.View, ships []models.Ship, remaining int) (engine.AttackChoice, bool) {
	for _, s := range ships {
		c.printf("  ship %d at %v\n", s.ID, s.Pos)
	}
	for {
		line, ok := c.readLine("attack (%d left): ship id, target hex and ships to commit, or skip", remaining)
		if !ok {
			return c.fallback.ChooseAttack(v, ships, remaining)
		}
		nums, err := parseInts(line, 4, 5)
		if errors.Is(err, errSkip) {
			return engine.AttackChoice{}, false
		}
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		target, err := hex.New(nums[1], nums[2], nums[3])
		if err != nil {
			c.printf("%v\n", err)
			continue
		}
		commit := 1
		if len(nums) == 5 {
			commit = nums[4]
		}
		return engine.AttackChoice{ShipID: nums[0], Target: target, Commit: commit}, true
	}
}

// ChooseSectorCard shows what each card is worth and reads a label.
func (c *Console) ChooseSectorCard(v engine.View, available []string) string {
	for _, card := range available {
		c.printf("  %s: %d point(s)\n", card, engine.ScoreCard(v.Board(), v.Occupation(), v.Self(), card, false))
	}
	line, ok := c.readLine("scoring card %v", available)
	if !ok {
		return c.fallback.ChooseSectorCard(v, available)
	}
	return strings.ToLower(line)
}

// Reject prints why the last answer was refused.
func (c *Console) Reject(err error) {
	if c.closed {
		if r, ok := c.fallback.(engine.Rejecter); ok {
			r.Reject(err)
		}
		return
	}
	c.printf("rejected: %v\n", err)
}

func isSkip(line string) bool {
	return line == "" || strings.EqualFold(line, "skip")
}

// parseInts reads between lo and hi integers separated by spaces, commas or
// parentheses.
func parseInts(line string, lo, hi int) ([]int, error) {
	if isSkip(line) {
		return nil, errSkip
	}
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == ',' || r == '(' || r == ')' || r == '\t'
	})
	if len(fields) < lo || len(fields) > hi {
		return nil, fmt.Errorf("expected %d to %d numbers, got %d", lo, hi, len(fields))
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i+1, err)
		}
		out[i] = n
	}
	return out, nil
}
