package navermap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/g33150641-hub/matziprank/config"
	"github.com/g33150641-hub/matziprank/geocode"
	"github.com/g33150641-hub/matziprank/models"
	"github.com/g33150641-hub/matziprank/utils"
)

const (
	mapURL = "https://map.naver.com/v5/search"

	searchInputSel = "input.input_search"
	searchFrame    = "searchIframe"
	entryFrame     = "entryIframe"

	listScrollSel = "#_pcmap_list_scroll_container"
	listItemSel   = "#_pcmap_list_scroll_container > ul > li"

	adMarker = "광고"
)

// clickTargetSels are tried most-specific first; the final empty entry means
// the whole listing container is the click target.
var clickTargetSels = []string{
	"a.place_bluelink",
	"a.tzwk0",
	"a",
	"",
}

// Scraper walks the map portal's result list for one location/category query
// and extracts a record per listing. One browser session, strictly
// sequential.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	geocoder *geocode.Client
	retry    *utils.RetryConfig

	typeDelay utils.DelayRange
	newDriver func() (Driver, error)

	// Progress, when set, is called after every processed listing.
	Progress func(collected, target int)
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger, geocoder *geocode.Client) *Scraper {
	return &Scraper{
		cfg:      cfg,
		logger:   logger,
		geocoder: geocoder,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.FrameRetries,
			BaseDelay:   time.Duration(cfg.ScrollPauseMs) * time.Millisecond,
			Logger:      logger,
		},
		typeDelay: utils.DelayRange{MinMs: cfg.TypeDelayMinMs, MaxMs: cfg.TypeDelayMaxMs},
		newDriver: func() (Driver, error) {
			return newChromeDriver(cfg.ChromeBin, logger)
		},
	}
}

// Collect runs one full walk: search, scroll the result list out to the
// requested count, then visit every listing and extract its record. The
// returned summary is a user-facing status string; err is non-nil only for
// failures that prevent any collection at all.
func (s *Scraper) Collect(location, category string, count int) ([]*models.ListingRecord, string, error) {
	if count > s.cfg.MaxListings {
		count = s.cfg.MaxListings
	}

	d, err := s.newDriver()
	if err != nil {
		return nil, "브라우저를 시작하지 못했습니다", err
	}
	defer d.Close()

	query := strings.TrimSpace(location + " " + category)
	s.logger.Info("[navermap] Starting collection — query %q, target %d", query, count)

	if err := d.Navigate(mapURL); err != nil {
		return nil, "지도 페이지를 열지 못했습니다", err
	}
	utils.Pause(s.cfg.RenderPauseMs)

	// Keyed in one character at a time with randomised pauses.
	if !d.TypeKeys(searchInputSel, query, s.typeDelay) {
		return nil, "검색창을 찾지 못했습니다", fmt.Errorf("navermap: search input not found")
	}
	d.PressEnter(searchInputSel)
	utils.Pause(s.cfg.RenderPauseMs)

	if !s.acquireFrame(d, searchFrame) {
		return nil, "검색 결과를 불러오지 못했습니다", fmt.Errorf("navermap: search frame never appeared")
	}

	available := s.growList(d, count)
	if available == 0 {
		return nil, "검색 결과가 없습니다", fmt.Errorf("navermap: no listings for query %q", query)
	}

	seen := utils.NewStringSet()
	records := make([]*models.ListingRecord, 0, count)

	for idx := 0; idx < available && len(records) < count; idx++ {
		rec := s.collectItem(d, idx, location, seen)
		if rec != nil {
			records = append(records, rec)
		}
		if s.Progress != nil {
			s.Progress(len(records), count)
		}
	}

	summary := fmt.Sprintf("%d곳의 식당 정보를 수집했습니다", len(records))
	s.logger.Info("[navermap] Collection complete — %d/%d records", len(records), count)
	return records, summary, nil
}

// acquireFrame switches into the named iframe with a bounded retry; the
// frame renders lazily after navigation.
func (s *Scraper) acquireFrame(d Driver, name string) bool {
	err := s.retry.Do("switch-frame-"+name, func() error {
		if !d.SwitchFrame(name) {
			return fmt.Errorf("frame %q not ready", name)
		}
		return nil
	})
	return err == nil
}

// growList scrolls the lazily rendered result list until the target count is
// visible, growth stalls, or the hard cap is hit. Returns the number of
// listing elements available.
func (s *Scraper) growList(d Driver, target int) int {
	found := d.Count(listItemSel)
	stalls := 0

	for found < target && found < s.cfg.MaxListings && stalls < 3 {
		d.ScrollBottom(listScrollSel)
		utils.Pause(s.cfg.ScrollPauseMs)

		n := d.Count(listItemSel)
		if n <= found {
			stalls++
		} else {
			stalls = 0
		}
		found = n
	}

	if found > s.cfg.MaxListings {
		found = s.cfg.MaxListings
	}
	s.logger.Info("[navermap] Result list grown to %d elements (target %d)", found, target)
	return found
}

// collectItem processes the idx-th listing element. Any error or panic while
// handling a single item is swallowed so the walk continues; the results
// frame is restored in every path so later element indices stay valid.
func (s *Scraper) collectItem(d Driver, idx int, queryLocation string, seen *utils.StringSet) (rec *models.ListingRecord) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("[navermap] Listing %d failed unexpectedly: %v", idx, r)
			rec = nil
		}
		d.TopFrame()
		d.SwitchFrame(searchFrame)
	}()

	itemSel := fmt.Sprintf("%s:nth-of-type(%d)", listItemSel, idx+1)

	if head, ok := d.Text(itemSel); ok && strings.HasPrefix(strings.TrimSpace(head), adMarker) {
		s.logger.Debug("[navermap] Listing %d is an advertisement — skipped", idx)
		return nil
	}

	name, clicked := s.clickListing(d, itemSel)
	if !clicked {
		s.logger.Debug("[navermap] Listing %d has no clickable element — skipped", idx)
		return nil
	}
	if name != "" && !seen.Add(name) {
		s.logger.Debug("[navermap] Duplicate listing %q — skipped", name)
		return nil
	}

	utils.Pause(s.cfg.RenderPauseMs)
	d.TopFrame()
	if !s.acquireFrame(d, entryFrame) {
		s.logger.Warn("[navermap] Detail frame never appeared for %q — skipped", name)
		return nil
	}

	markup := d.PageSource()
	body := d.BodyText()

	// A record with an empty name is still appended; rejecting it here would
	// change the persisted row count between runs.
	rec = &models.ListingRecord{
		Name:           name,
		Category:       ExtractCategory(markup),
		VisitorReviews: ExtractVisitorReviews(markup),
		BlogReviews:    ExtractBlogReviews(markup),
		Address:        ExtractAddress(markup, queryLocation),
		Hours:          ExtractHours(d),
		Parking:        ExtractParking(body),
		Menus:          ExtractMenus(d, s.cfg.RenderPauseMs),
		Tags:           ExtractTags(markup, 5),
	}

	if p, ok := s.geocoder.Resolve(context.Background(), rec.Address); ok {
		rec.Lat, rec.Lon, rec.HasCoords = p.Lat, p.Lon, true
	}

	s.logger.Debug("[navermap] Collected %q (%s, %d/%d reviews)",
		rec.Name, rec.Category, rec.VisitorReviews, rec.BlogReviews)
	return rec
}

// clickListing finds the most specific clickable sub-element of a listing
// and clicks it. Its text is the record's name.
func (s *Scraper) clickListing(d Driver, itemSel string) (string, bool) {
	for _, sub := range clickTargetSels {
		sel := itemSel
		if sub != "" {
			sel = itemSel + " " + sub
		}
		text, ok := d.Text(sel)
		if !ok && sub != "" {
			continue
		}
		if d.Click(sel) {
			return firstLine(text), true
		}
	}
	return "", false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
