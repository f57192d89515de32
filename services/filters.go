package services

import (
	"strings"

	"github.com/g33150641-hub/matziprank/models"
)

// ClassFilter selects a category class of records.
type ClassFilter string

const (
	ClassAll  ClassFilter = "all"
	ClassMeal ClassFilter = "meal"
	ClassCafe ClassFilter = "cafe"
)

// cafeKeywords decide the meal/cafe split by substring match on category.
var cafeKeywords = []string{"카페", "커피", "디저트", "베이커리", "브런치", "찻집"}

// openCues are matched in order against free-text hours.
var openCues = []struct {
	sub    string
	status models.OpenStatus
}{
	{"라스트오더", models.StatusClosingSoon},
	{"영업 중", models.StatusOpen},
	{"휴무", models.StatusClosed},
	{"영업 종료", models.StatusClosed},
}

// ClassifyOpenStatus derives an open/closed status from free-text hours.
// Anything without a recognised cue — including the "no info" placeholder —
// is unknown.
func ClassifyOpenStatus(hours string) models.OpenStatus {
	for _, c := range openCues {
		if strings.Contains(hours, c.sub) {
			return c.status
		}
	}
	return models.StatusUnknown
}

// IsCafe reports whether a category string belongs to the cafe class.
func IsCafe(category string) bool {
	for _, kw := range cafeKeywords {
		if strings.Contains(category, kw) {
			return true
		}
	}
	return false
}

// matchesClass applies the category-class filter to one record.
func matchesClass(rec *models.ListingRecord, class ClassFilter) bool {
	switch class {
	case ClassMeal:
		return !IsCafe(rec.Category)
	case ClassCafe:
		return IsCafe(rec.Category)
	default:
		return true
	}
}

// parkingUsable reports whether a record passes the parking-available filter.
func parkingUsable(p models.Parking) bool {
	return p == models.ParkingAvailable || p == models.ParkingValet
}

// FilterRecords applies the active class, open-now and parking filters.
func FilterRecords(records []*models.ListingRecord, opts RankOptions) []*models.ListingRecord {
	out := make([]*models.ListingRecord, 0, len(records))
	for _, rec := range records {
		if !matchesClass(rec, opts.Class) {
			continue
		}
		if opts.OpenNowOnly {
			st := ClassifyOpenStatus(rec.Hours)
			if st != models.StatusOpen && st != models.StatusClosingSoon {
				continue
			}
		}
		if opts.ParkingOnly && !parkingUsable(rec.Parking) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
