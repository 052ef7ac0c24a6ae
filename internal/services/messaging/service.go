package messaging

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/foresight/internal/models"
	"github.com/KirkDiggler/foresight/internal/transport"
	"github.com/shopspring/decimal"
)

const (
	deadlineLayout = "2006-01-02 15:04 MST"
	displayDigits  = 6
)

// service implements the Service interface
type service struct {
	disclosure DisclosurePolicy

	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(cfg *ServiceConfig) (Service, error) {
	if cfg == nil {
		cfg = &ServiceConfig{}
	}

	disclosure := cfg.Disclosure
	if disclosure == "" {
		disclosure = DisclosureSilent
	}
	if !disclosure.Valid() {
		return nil, fmt.Errorf("unknown disclosure policy %q", disclosure)
	}

	r := cfg.Rand
	if r == nil {
		r = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &service{
		disclosure: disclosure,
		rand:       r,
	}, nil
}

func (s *service) pick(options []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return options[s.rand.Intn(len(options))]
}

// GetPhaseAnnouncement returns the text posted when a round enters a phase
func (s *service) GetPhaseAnnouncement(ctx context.Context, input *GetPhaseAnnouncementInput) (*GetPhaseAnnouncementOutput, error) {
	if input == nil || input.Round == nil {
		return nil, ErrNilRound
	}
	r := input.Round
	tags := transport.FormatTags(r.ID, input.Phase)

	switch input.Phase {
	case models.PhaseCommitmentsOpen:
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n", tags)
		fmt.Fprintf(&b, "ROUND %s - Commitment Phase\n", r.ID)
		if r.Description != "" {
			fmt.Fprintf(&b, "%s\n", r.Description)
		}
		if r.LivestreamURL != "" {
			fmt.Fprintf(&b, "Livestream: %s\n", r.LivestreamURL)
		}
		fmt.Fprintf(&b, "Prize pool: %s %s\n\n", formatAmount(r.PrizePool), r.Currency)
		b.WriteString("How to play:\n")
		b.WriteString("1. Generate a commitment hash for your guess\n")
		fmt.Fprintf(&b, "2. Reply before %s\n\n", formatDeadline(r.CommitmentDeadline))
		b.WriteString("Reply format:\n")
		b.WriteString(transport.FormatCommitment("<hash>", "<address>"))
		return &GetPhaseAnnouncementOutput{Message: b.String()}, nil

	case models.PhaseCommitmentsClosed:
		flavor := s.pick([]string{
			"No more guesses. The future is sealed.",
			"Pencils down.",
			"The envelopes are sealed. Now we wait for the frame.",
			"That's a wrap on predictions.",
		})
		msg := fmt.Sprintf("%s\n\nCommitments are closed for round %s. %d commitments received. %s",
			tags, r.ID, countCommitted(r), flavor)
		return &GetPhaseAnnouncementOutput{Message: msg, ReplyTo: models.PhaseCommitmentsOpen}, nil

	case models.PhaseRevealsOpen:
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\n", tags)
		fmt.Fprintf(&b, "ROUND %s - Reveal Phase - Target frame below\n\n", r.ID)
		fmt.Fprintf(&b, "Reply to this message with the plain text of your #round%s commitment before %s\n\n",
			r.ID, formatDeadline(r.RevealDeadline))
		b.WriteString("Reply format:\n")
		b.WriteString(transport.FormatReveal("<your guess>", "<your salt>"))
		return &GetPhaseAnnouncementOutput{Message: b.String(), ImagePath: r.TargetFrame.Path}, nil

	case models.PhaseRevealsClosed:
		revealed := 0
		for _, p := range r.Participants {
			if p.HasReveal() {
				revealed++
			}
		}
		msg := fmt.Sprintf("%s\n\nReveals are closed for round %s. %d reveals received. Scoring begins shortly.",
			tags, r.ID, revealed)
		return &GetPhaseAnnouncementOutput{Message: msg, ReplyTo: models.PhaseRevealsOpen}, nil

	case models.PhaseFinished:
		out, err := s.GetResultsMessage(ctx, &GetResultsMessageInput{Round: r})
		if err != nil {
			return nil, err
		}
		return &GetPhaseAnnouncementOutput{Message: out.Message}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNoAnnouncement, input.Phase)
}

// GetResultsMessage renders the ranked payouts of a round
func (s *service) GetResultsMessage(ctx context.Context, input *GetResultsMessageInput) (*GetResultsMessageOutput, error) {
	if input == nil || input.Round == nil {
		return nil, ErrNilRound
	}
	r := input.Round
	if len(r.Results) == 0 {
		return nil, ErrNoResults
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", transport.FormatTags(r.ID, models.PhaseFinished))
	fmt.Fprintf(&b, "ROUND %s - Results\n", r.ID)
	if r.Scoring != nil {
		fmt.Fprintf(&b, "Scored with %s@%s\n", r.Scoring.Strategy, r.Scoring.Version)
	}
	b.WriteString("\n")

	for _, res := range r.Results {
		name := res.Name
		if name == "" {
			name = res.ParticipantID
		}
		fmt.Fprintf(&b, "%d. %s score %.4f payout %s %s\n",
			res.Rank, name, res.Score, formatAmount(res.Payout), r.Currency)
	}

	fmt.Fprintf(&b, "\nTotal paid: %s of %s %s\n",
		formatAmount(r.TotalPayout()), formatAmount(r.PrizePool), r.Currency)

	if s.disclosure == DisclosureListExcluded {
		var excluded []string
		for _, p := range r.Participants {
			if p.Exclusion != "" {
				excluded = append(excluded, fmt.Sprintf("%s (%s)", displayName(p), p.Exclusion))
			}
		}
		if len(excluded) > 0 {
			fmt.Fprintf(&b, "Excluded: %s\n", strings.Join(excluded, ", "))
		}
	}

	return &GetResultsMessageOutput{Message: strings.TrimRight(b.String(), "\n")}, nil
}

// GetStatusMessage summarizes where a round stands
func (s *service) GetStatusMessage(ctx context.Context, input *GetStatusMessageInput) (*GetStatusMessageOutput, error) {
	if input == nil || input.Round == nil {
		return nil, ErrNilRound
	}
	r := input.Round

	msg := fmt.Sprintf("Round %s is in %s. Participants: %d, committed: %d, verified: %d, prize pool: %s %s",
		r.ID, r.Phase.DisplayName(), len(r.Participants), countCommitted(r), r.VerifiedCount(),
		formatAmount(r.PrizePool), r.Currency)
	if r.Phase.HasResults() {
		msg += fmt.Sprintf(", paid: %s %s", formatAmount(r.TotalPayout()), r.Currency)
	}
	return &GetStatusMessageOutput{Message: msg}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	var errorType ErrorType
	if input != nil {
		errorType = input.ErrorType
	}

	switch errorType {
	case ErrorTypeEmptyGuess:
		return &GetErrorMessageOutput{Title: "Empty Guess", Message: s.pick([]string{
			"A guess needs at least one word.",
			"Blank guesses never win. Describe the frame you expect.",
		})}, nil
	case ErrorTypeGuessTooLong:
		return &GetErrorMessageOutput{Title: "Guess Too Long", Message: "Guesses are limited to 300 bytes. Trim it down and try again."}, nil
	case ErrorTypeMalformedHash:
		return &GetErrorMessageOutput{Title: "Malformed Commitment", Message: "A commitment is 64 lowercase hex characters."}, nil
	case ErrorTypeHashMismatch:
		return &GetErrorMessageOutput{Title: "No Match", Message: s.pick([]string{
			"That guess and salt do not produce this commitment.",
			"The hash does not match. Check for stray spaces in the guess or salt.",
		})}, nil
	case ErrorTypePhaseClosed:
		return &GetErrorMessageOutput{Title: "Phase Closed", Message: "This phase of the round is closed. Watch for the next announcement."}, nil
	case ErrorTypeRoundNotFound:
		return &GetErrorMessageOutput{Title: "Round Not Found", Message: "No round with that ID exists."}, nil
	}

	return &GetErrorMessageOutput{Title: "Error", Message: "Something went wrong. Please try again."}, nil
}

func countCommitted(r *models.Round) int {
	n := 0
	for _, p := range r.Participants {
		if p.HasCommitment() {
			n++
		}
	}
	return n
}

func displayName(p *models.Participant) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func formatDeadline(t *time.Time) string {
	if t == nil {
		return "the operator closes the phase"
	}
	return t.Format(deadlineLayout)
}

func formatAmount(d decimal.Decimal) string {
	return d.Truncate(displayDigits).String()
}
