package transport

import (
	"regexp"
	"strings"

	"github.com/KirkDiggler/foresight/internal/models"
)

// ContestTag marks every announcement posted by a validator
const ContestTag = "#foresight"

var (
	roundTagPattern = regexp.MustCompile(`#round([A-Za-z0-9_-]+)`)
	hashtagPattern  = regexp.MustCompile(`#([A-Za-z_]+)\b`)
)

// Tags is what a miner can learn from an announcement
type Tags struct {
	RoundID string
	Phase   models.Phase
}

// FormatTags renders the hashtag line for an announcement
func FormatTags(roundID string, phase models.Phase) string {
	return strings.Join([]string{ContestTag, "#round" + roundID, phase.Hashtag()}, " ")
}

// ParseTags reads the round and phase from an announcement
func ParseTags(text string) (*Tags, bool) {
	if !strings.Contains(text, ContestTag) {
		return nil, false
	}
	m := roundTagPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}

	for _, tag := range hashtagPattern.FindAllStringSubmatch(text, -1) {
		phase, err := models.ParsePhase(tag[1])
		if err == nil {
			return &Tags{RoundID: m[1], Phase: phase}, true
		}
	}
	return nil, false
}
