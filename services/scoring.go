package services

import (
	"math"
	"strings"

	"github.com/g33150641-hub/matziprank/models"
)

// Taxonomy maps a user-facing priority label to the keyword substrings that
// earn a bonus when found in a record's tag text.
var Taxonomy = map[string][]string{
	"데이트": {"데이트", "분위기", "와인", "야경"},
	"가족":  {"가족", "한정식", "넓은", "좌식"},
	"혼밥":  {"혼밥", "1인", "카운터"},
	"회식":  {"회식", "단체", "룸", "고기"},
}

// matchBonus is added per distinct taxonomy keyword matched.
const matchBonus = 100

// Scorer computes ranking scores from review volume plus keyword bonuses.
// Pure: no state beyond the configured weight, no I/O.
type Scorer struct {
	weight int
}

// NewScorer creates a Scorer with the given log-scale weight (10 or 20
// depending on configuration; non-positive values fall back to 10).
func NewScorer(weight int) *Scorer {
	if weight <= 0 {
		weight = 10
	}
	return &Scorer{weight: weight}
}

// Score derives the final score for one record under the given priority.
// The base is round(ln(total+1)*weight); each distinct taxonomy keyword of
// the priority found in the tag text adds a fixed bonus. An unknown or empty
// priority contributes no bonus.
func (s *Scorer) Score(rec *models.ListingRecord, priority string) (final int, matched []string, total int) {
	total = rec.VisitorReviews + rec.BlogReviews
	base := int(math.Round(math.Log(float64(total)+1) * float64(s.weight)))

	tagText := strings.Join(rec.Tags, " ")
	for _, kw := range Taxonomy[priority] {
		if strings.Contains(tagText, kw) {
			matched = append(matched, kw)
		}
	}

	return base + matchBonus*len(matched), matched, total
}
