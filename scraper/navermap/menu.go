package navermap

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/g33150641-hub/matziprank/models"
	"github.com/g33150641-hub/matziprank/utils"
)

const (
	menuNameSel  = ".place_section_content .lPzHi"
	menuPriceSel = ".place_section_content .GXS1X"
	menuTabSel   = `a[role="tab"]`
	menuTabLabel = "메뉴"

	maxMenuPairs     = 5
	maxScannedPairs  = 3
	maxMenuNameRunes = 20
)

// promoWords are fixed promotional markers stripped from menu names.
var promoWords = []string{"대표", "인기", "추천", "신메뉴", "사진", "BEST", "NEW"}

var (
	parenRe     = regexp.MustCompile(`\([^()]*\)`)
	bodyPriceRe = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+)\s*원`)
)

type menuPair struct {
	name  string
	price string
}

// ExtractMenus pulls up to five menu items from the detail frame with a
// three-tier fallback: paired name/price elements, the same after clicking
// the menu tab, and finally a price-token scan over the visible body text.
// The result is one delimited string, or a placeholder when nothing parses.
func ExtractMenus(d Driver, tabPauseMs int) string {
	pairs := readMenuPairs(d)

	if len(pairs) == 0 && d.ClickText(menuTabSel, menuTabLabel) {
		utils.Pause(tabPauseMs)
		pairs = readMenuPairs(d)
	}

	if len(pairs) == 0 {
		pairs = scanMenuLines(d.BodyText())
	}

	var parts []string
	for _, p := range pairs {
		if item := FormatMenuItem(p.name, p.price); item != "" {
			parts = append(parts, item)
		}
	}
	if len(parts) == 0 {
		return models.NoMenus
	}
	return strings.Join(parts, models.MenuDelimiter)
}

func readMenuPairs(d Driver) []menuPair {
	names := d.TextAll(menuNameSel, maxMenuPairs)
	prices := d.TextAll(menuPriceSel, maxMenuPairs)

	n := len(names)
	if len(prices) < n {
		n = len(prices)
	}

	pairs := make([]menuPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, menuPair{name: names[i], price: prices[i]})
	}
	return pairs
}

// scanMenuLines is the last-resort tier: any body-text line carrying a
// price-shaped token is paired with the preceding short line as the name.
func scanMenuLines(bodyText string) []menuPair {
	lines := strings.Split(bodyText, "\n")
	var pairs []menuPair

	for i := 1; i < len(lines) && len(pairs) < maxScannedPairs; i++ {
		m := bodyPriceRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		name := strings.TrimSpace(lines[i-1])
		if name == "" || utf8.RuneCountInString(name) > 25 || bodyPriceRe.MatchString(name) {
			continue
		}
		pairs = append(pairs, menuPair{name: name, price: m[1]})
	}
	return pairs
}

// FormatMenuItem cleans a raw name/price pair into "이름: 가격원". An empty
// cleaned name or price yields "".
func FormatMenuItem(name, price string) string {
	name = CleanMenuName(name)
	price = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(price), "원"))
	if name == "" || price == "" {
		return ""
	}
	return name + ": " + price + "원"
}

// CleanMenuName normalises a scraped menu name: promotional markers removed,
// text truncated at the first colon or newline, parenthetical content
// dropped, surrounding punctuation trimmed, and names longer than 20
// characters cut to their first three tokens. A single pass can leave
// newly-formed matches behind (nested parentheses, a promo word spliced
// together by an earlier removal), so the pass repeats until the name is
// stable. Every changing pass strictly shortens the name, so this
// terminates, and the result is idempotent.
func CleanMenuName(name string) string {
	for {
		cleaned := cleanMenuNamePass(name)
		if cleaned == name {
			return cleaned
		}
		name = cleaned
	}
}

func cleanMenuNamePass(name string) string {
	for _, w := range promoWords {
		name = strings.ReplaceAll(name, w, "")
	}
	if i := strings.IndexAny(name, ":\n"); i >= 0 {
		name = name[:i]
	}
	name = parenRe.ReplaceAllString(name, "")
	name = strings.Trim(name, " \t.,·~!-")
	if utf8.RuneCountInString(name) > maxMenuNameRunes {
		fields := strings.Fields(name)
		if len(fields) > 3 {
			fields = fields[:3]
		}
		name = strings.Join(fields, " ")
	}
	return name
}
