package models

// Parking is the parking-availability category extracted from a detail page.
type Parking string

const (
	ParkingAvailable   Parking = "가능"
	ParkingUnavailable Parking = "불가"
	ParkingValet       Parking = "발렛/가능"
	ParkingUnknown     Parking = "정보 없음"
)

// OpenStatus is derived from free-text business hours at render time.
type OpenStatus string

const (
	StatusOpen        OpenStatus = "open"
	StatusClosingSoon OpenStatus = "closing soon"
	StatusClosed      OpenStatus = "closed"
	StatusUnknown     OpenStatus = "unknown"
)

// Placeholders written when a field could not be extracted.
const (
	NoCategory = "음식점"
	NoHours    = "정보 없음"
	NoMenus    = "메뉴 정보 없음"
)

// MenuDelimiter separates formatted menu entries within the Menus field.
const MenuDelimiter = " | "

// TagDelimiter joins tags inside one CSV cell. Tags are free text scraped
// off the portal and may carry commas, so a bare "," is not safe.
const TagDelimiter = " | "

// PriceSentinel sorts records with no parseable menu price last.
const PriceSentinel = 9999999

// ListingRecord is one scraped establishment, exactly as persisted to CSV.
// The file is fully overwritten on each collection run.
type ListingRecord struct {
	Name           string
	Category       string
	VisitorReviews int
	BlogReviews    int
	Address        string
	Hours          string
	Parking        Parking
	Menus          string // formatted "이름: 가격원" entries joined by MenuDelimiter
	Tags           []string
	Lat            float64
	Lon            float64
	HasCoords      bool
}

// ScoredRecord is a ListingRecord plus render-time derived fields. It is
// never persisted; every render recomputes it from the stored record.
type ScoredRecord struct {
	*ListingRecord
	FinalScore   int
	TotalReviews int
	MatchedTags  []string
	MinPrice     int
}
