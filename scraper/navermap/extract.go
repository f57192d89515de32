package navermap

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/g33150641-hub/matziprank/models"
)

// Field extractors. Each one is best-effort and independent: the portal's
// markup is unstable and partially rendered depending on load timing, so a
// missing field degrades to its default instead of aborting the record.

var (
	// Review counts appear as a label followed by the number, sometimes with
	// markup in between. The markup variant is tried first.
	visitorMarkupRe = regexp.MustCompile(`방문자\s*리뷰\s*(?:<[^>]+>\s*)+([\d,]+)`)
	visitorPlainRe  = regexp.MustCompile(`방문자\s*리뷰\s*([\d,]+)`)
	blogMarkupRe    = regexp.MustCompile(`블로그\s*리뷰\s*(?:<[^>]+>\s*)+([\d,]+)`)
	blogPlainRe     = regexp.MustCompile(`블로그\s*리뷰\s*([\d,]+)`)

	categoryRe = regexp.MustCompile(`<span class="lnJFt">([^<]+)</span>`)
	addressRe  = regexp.MustCompile(`<span class="LDgIH">([^<]+)</span>`)
	tagRe      = regexp.MustCompile(`<span class="sJgQj">([^<]+)</span>`)
)

const (
	categorySel = "span.lnJFt"
	addressSel  = "span.LDgIH"
	tagSel      = "span.sJgQj"
)

// hoursSels are tried in order against the loaded detail frame.
var hoursSels = []string{".place_section_content .U7pYf", ".A_cdD"}

// ExtractVisitorReviews pulls the visitor review count out of detail-page
// markup. Unparsable or absent counts yield 0.
func ExtractVisitorReviews(markup string) int {
	return extractLabeledCount(markup, visitorMarkupRe, visitorPlainRe)
}

// ExtractBlogReviews pulls the blog review count out of detail-page markup.
func ExtractBlogReviews(markup string) int {
	return extractLabeledCount(markup, blogMarkupRe, blogPlainRe)
}

func extractLabeledCount(markup string, patterns ...*regexp.Regexp) int {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(markup); len(m) == 2 {
			return ParseReviewCount(m[1])
		}
	}
	return 0
}

// ParseReviewCount converts a review-count string, stripping thousands
// separators. Anything unparsable or negative yields 0.
func ParseReviewCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ExtractCategory reads the establishment category from markup.
func ExtractCategory(markup string) string {
	if t := selectFirst(markup, categorySel); t != "" {
		return t
	}
	if m := categoryRe.FindStringSubmatch(markup); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return models.NoCategory
}

// ExtractAddress reads the road address from markup, falling back to the
// query location when the portal does not expose one.
func ExtractAddress(markup, fallback string) string {
	if t := selectFirst(markup, addressSel); t != "" {
		return t
	}
	if m := addressRe.FindStringSubmatch(markup); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return fallback
}

// ExtractHours reads the visible business-hours text from the detail frame.
func ExtractHours(d Driver) string {
	for _, sel := range hoursSels {
		if t, ok := d.Text(sel); ok {
			return t
		}
	}
	return models.NoHours
}

// ExtractParking scans the full visible body text for parking cues, in
// order: explicit availability, explicit unavailability, valet, then a bare
// mention of parking.
func ExtractParking(bodyText string) models.Parking {
	cues := []struct {
		sub string
		cat models.Parking
	}{
		{"주차 가능", models.ParkingAvailable},
		{"주차가능", models.ParkingAvailable},
		{"주차 불가", models.ParkingUnavailable},
		{"주차불가", models.ParkingUnavailable},
		{"발렛", models.ParkingValet},
		{"주차", models.ParkingAvailable},
	}
	for _, c := range cues {
		if strings.Contains(bodyText, c.sub) {
			return c.cat
		}
	}
	return models.ParkingUnknown
}

// ExtractTags collects up to max keyword tags from markup.
func ExtractTags(markup string, max int) []string {
	tags := selectAll(markup, tagSel, max)
	if len(tags) > 0 {
		return tags
	}
	for _, m := range tagRe.FindAllStringSubmatch(markup, max) {
		if t := strings.TrimSpace(m[1]); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func selectFirst(markup, sel string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find(sel).First().Text())
}

func selectAll(markup, sel string, max int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	var out []string
	doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
		return len(out) < max
	})
	return out
}
