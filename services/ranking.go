package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/g33150641-hub/matziprank/models"
	"github.com/g33150641-hub/matziprank/utils"
)

// SortMode selects how the ranked view is ordered.
type SortMode string

const (
	SortByRank  SortMode = "rank"
	SortByPrice SortMode = "price"
)

// RankOptions is the explicit view state threaded through every render:
// active sort mode, filters and scoring priority. Derived fields are
// recomputed from the persisted records on each call.
type RankOptions struct {
	Sort        SortMode
	Class       ClassFilter
	OpenNowOnly bool
	ParkingOnly bool
	Priority    string
}

// Ranker filters, scores and orders one persisted record set for display.
type Ranker struct {
	scorer *Scorer
	logger *utils.Logger
}

// NewRanker creates a Ranker with the given score weight.
func NewRanker(weight int, logger *utils.Logger) *Ranker {
	return &Ranker{scorer: NewScorer(weight), logger: logger}
}

// Rank derives scored records from the persisted set under the given options.
func (r *Ranker) Rank(records []*models.ListingRecord, opts RankOptions) []*models.ScoredRecord {
	filtered := FilterRecords(records, opts)

	scored := make([]*models.ScoredRecord, 0, len(filtered))
	for _, rec := range filtered {
		final, matched, total := r.scorer.Score(rec, opts.Priority)
		scored = append(scored, &models.ScoredRecord{
			ListingRecord: rec,
			FinalScore:    final,
			TotalReviews:  total,
			MatchedTags:   matched,
			MinPrice:      MinMenuPrice(rec.Menus),
		})
	}

	switch opts.Sort {
	case SortByPrice:
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].MinPrice < scored[j].MinPrice
		})
	default:
		sort.SliceStable(scored, func(i, j int) bool {
			if scored[i].FinalScore != scored[j].FinalScore {
				return scored[i].FinalScore > scored[j].FinalScore
			}
			return scored[i].TotalReviews > scored[j].TotalReviews
		})
	}

	r.logger.Debug("[rank] %d records after filters (of %d)", len(scored), len(records))
	return scored
}

var menuPriceRe = regexp.MustCompile(`(\d[\d,]*)원`)

// MinMenuPrice returns the smallest price found in a serialized menu string,
// or the sentinel when none parses, so priceless records sort last.
func MinMenuPrice(menus string) int {
	min := models.PriceSentinel
	for _, m := range menuPriceRe.FindAllStringSubmatch(menus, -1) {
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil || n <= 0 {
			continue
		}
		if n < min {
			min = n
		}
	}
	return min
}

// Print renders the ranked view as a terminal table.
func (r *Ranker) Print(scored []*models.ScoredRecord, opts RankOptions) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🍚 맛집 랭킹 — sort: %s | class: %s\033[0m\n", opts.Sort, opts.Class)
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	if len(scored) == 0 {
		fmt.Printf("  조건에 맞는 식당이 없습니다\n\n")
		return
	}

	for i, sr := range scored {
		name := sr.Name
		if name == "" {
			name = "(이름 없음)"
		}
		status := ClassifyOpenStatus(sr.Hours)

		fmt.Printf("  \033[1m%2d.\033[0m %-28s \033[1;32m%4d점\033[0m  리뷰 %d  [%s]\n",
			i+1, truncate(name, 26), sr.FinalScore, sr.TotalReviews, status)
		fmt.Printf("      %s · 주차 %s", sr.Category, sr.Parking)
		if sr.MinPrice != models.PriceSentinel {
			fmt.Printf(" · 최저 %s원", formatPrice(sr.MinPrice))
		}
		if len(sr.MatchedTags) > 0 {
			fmt.Printf(" · \033[1;33m%s\033[0m", strings.Join(sr.MatchedTags, ", "))
		}
		fmt.Println()
		if sr.Menus != models.NoMenus {
			fmt.Printf("      %s\n", truncate(sr.Menus, 60))
		}
		fmt.Printf("  %s\n", thin)
	}
	fmt.Println()
}

func formatPrice(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
