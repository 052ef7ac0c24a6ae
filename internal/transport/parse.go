package transport

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	commitPattern = regexp.MustCompile(`(?i)Commit:\s*([a-f0-9]{64})\b`)
	walletPattern = regexp.MustCompile(`(?i)Wallet:\s*([^\s]+)`)
	guessPattern  = regexp.MustCompile(`(?i)Guess:[ \t]*(.+)`)
	saltPattern   = regexp.MustCompile(`(?i)Salt:\s*([^\s]+)`)
)

// Commitment is a parsed commitment reply
type Commitment struct {
	Hash   string
	Wallet string
}

// Reveal is a parsed reveal reply
type Reveal struct {
	Guess string
	Salt  string
}

// FormatCommitment renders a commitment reply
func FormatCommitment(hash, wallet string) string {
	text := "Commit: " + hash
	if wallet != "" {
		text += "\nWallet: " + wallet
	}
	return text
}

// FormatReveal renders a reveal reply
func FormatReveal(guess, salt string) string {
	return fmt.Sprintf("Guess: %s\nSalt: %s", guess, salt)
}

// Revealable reports whether a reveal of guess and salt parses back unchanged.
// Padded guesses, multi-line guesses and salts with whitespace do not.
func Revealable(guess, salt string) bool {
	r, ok := ParseReveal(FormatReveal(guess, salt))
	return ok && r.Guess == guess && r.Salt == salt
}

// ParseCommitment extracts a commitment from reply text. The hash is lowercased.
func ParseCommitment(text string) (*Commitment, bool) {
	m := commitPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	c := &Commitment{Hash: strings.ToLower(m[1])}
	if w := walletPattern.FindStringSubmatch(text); w != nil {
		c.Wallet = w[1]
	}
	return c, true
}

// ParseReveal extracts a guess and salt from reply text. The guess runs to the end of its line.
func ParseReveal(text string) (*Reveal, bool) {
	g := guessPattern.FindStringSubmatch(text)
	s := saltPattern.FindStringSubmatch(text)
	if g == nil || s == nil {
		return nil, false
	}
	guess := strings.TrimSpace(g[1])
	if guess == "" {
		return nil, false
	}
	return &Reveal{Guess: guess, Salt: s[1]}, true
}
