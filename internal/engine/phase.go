package engine

// Phase is a state of the round state machine.
type Phase int

const (
	PhaseSetup            Phase = iota // opening ship placement
	PhaseAwaitingOrders                // collecting command orders
	PhaseMatrixUpdated                 // usage matrix rebuilt
	PhaseExecutingSlot                 // resolving slot 0..2
	PhaseSustaining                    // culling unsustainable ships
	PhaseDrafting                      // scoring draft
	PhaseRoundScored                   // scores published
	PhaseGameEnded                     // final tally done
)

var phaseNames = map[Phase]string{
	PhaseSetup:          "Setup",
	PhaseAwaitingOrders: "AwaitingCommandOrders",
	PhaseMatrixUpdated:  "MatrixUpdated",
	PhaseExecutingSlot:  "ExecutingSlot",
	PhaseSustaining:     "Sustaining",
	PhaseDrafting:       "DraftingScores",
	PhaseRoundScored:    "RoundScored",
	PhaseGameEnded:      "GameEnded",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "Unknown"
}
