package models

import (
	"fmt"
	"strings"
)

// Phase represents where a round is in its lifecycle
type Phase string

const (
	// PhaseCommitmentsOpen accepts hashed guesses from participants
	PhaseCommitmentsOpen Phase = "commitments_open"

	// PhaseCommitmentsClosed no longer accepts commitments
	PhaseCommitmentsClosed Phase = "commitments_closed"

	// PhaseFrameCaptured has a fixed target frame
	PhaseFrameCaptured Phase = "frame_captured"

	// PhaseRevealsOpen accepts guess and salt disclosures
	PhaseRevealsOpen Phase = "reveals_open"

	// PhaseRevealsClosed no longer accepts reveals
	PhaseRevealsClosed Phase = "reveals_closed"

	// PhasePayouts has scored results attached
	PhasePayouts Phase = "payouts"

	// PhaseFinished is terminal
	PhaseFinished Phase = "finished"
)

var phaseOrder = []Phase{
	PhaseCommitmentsOpen,
	PhaseCommitmentsClosed,
	PhaseFrameCaptured,
	PhaseRevealsOpen,
	PhaseRevealsClosed,
	PhasePayouts,
	PhaseFinished,
}

var phaseDisplayNames = map[Phase]string{
	PhaseCommitmentsOpen:   "CommitmentsOpen",
	PhaseCommitmentsClosed: "CommitmentsClosed",
	PhaseFrameCaptured:     "FrameCaptured",
	PhaseRevealsOpen:       "RevealsOpen",
	PhaseRevealsClosed:     "RevealsClosed",
	PhasePayouts:           "Payouts",
	PhaseFinished:          "Finished",
}

// Phases returns every phase in lifecycle order
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// ParsePhase accepts either the stored form ("reveals_open") or the
// display form ("RevealsOpen"), case-insensitively
func ParsePhase(s string) (Phase, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	for _, p := range phaseOrder {
		if normalized == string(p) || normalized == strings.ToLower(phaseDisplayNames[p]) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown phase %q", s)
}

// Valid reports whether p is a known phase
func (p Phase) Valid() bool {
	return p.Index() >= 0
}

// Index returns the position of p in the lifecycle, or -1 if unknown
func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p. Finished and unknown phases have no successor.
func (p Phase) Next() (Phase, bool) {
	i := p.Index()
	if i < 0 || i == len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[i+1], true
}

// Before reports whether p comes earlier in the lifecycle than other
func (p Phase) Before(other Phase) bool {
	return p.Index() < other.Index()
}

// DisplayName returns the CamelCase name used in announcements
func (p Phase) DisplayName() string {
	if name, ok := phaseDisplayNames[p]; ok {
		return name
	}
	return string(p)
}

// Hashtag returns the channel tag for the phase, e.g. "#revealsopen"
func (p Phase) Hashtag() string {
	return "#" + strings.ToLower(p.DisplayName())
}

// AcceptsCommitments reports whether commitments may be ingested in this phase
func (p Phase) AcceptsCommitments() bool {
	return p == PhaseCommitmentsOpen
}

// AcceptsReveals reports whether reveals may be ingested in this phase
func (p Phase) AcceptsReveals() bool {
	return p == PhaseRevealsOpen
}

// IsFinished checks if the round has completed its lifecycle
func (p Phase) IsFinished() bool {
	return p == PhaseFinished
}

// HasResults reports whether a round in this phase carries scoring results
func (p Phase) HasResults() bool {
	return p == PhasePayouts || p == PhaseFinished
}
