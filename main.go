package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/g33150641-hub/matziprank/config"
	"github.com/g33150641-hub/matziprank/geocode"
	"github.com/g33150641-hub/matziprank/scraper/navermap"
	"github.com/g33150641-hub/matziprank/services"
	"github.com/g33150641-hub/matziprank/storage"
	"github.com/g33150641-hub/matziprank/utils"
)

const (
	minTarget = 10
	maxTarget = 50
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "collect":
		runCollect(cfg, logger, os.Args[2:])
	case "rank":
		runRank(cfg, logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  matziprank collect -loc <location> [-cat <category>] [-n <count>]
  matziprank rank [-sort rank|price] [-class all|meal|cafe] [-open] [-parking] [-priority <label>]`)
}

func runCollect(cfg *config.Config, logger *utils.Logger, args []string) {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	loc := fs.String("loc", "", "location to search, e.g. 강남역")
	cat := fs.String("cat", "맛집", "category appended to the query")
	n := fs.Int("n", 20, "number of listings to collect (10–50)")
	_ = fs.Parse(args)

	if *loc == "" {
		fmt.Fprintln(os.Stderr, "collect: -loc is required")
		os.Exit(2)
	}
	target := clamp(*n, minTarget, maxTarget)

	logger.Info("=== 맛집 수집 시작 — %q %q, %d곳 ===", *loc, *cat, target)

	store, err := storage.NewCSVStore(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to prepare output file: %v", err)
		os.Exit(1)
	}

	geocoder := geocode.NewClient(cfg.VWorldAPIKey,
		time.Duration(cfg.GeocodeTimeoutS)*time.Second, logger)

	scraper := navermap.New(cfg, logger, geocoder)
	scraper.Progress = func(collected, target int) {
		logger.Info("[collect] %d/%d 수집 중...", collected, target)
	}

	records, summary, err := scraper.Collect(*loc, *cat, target)
	if err != nil {
		// Fatal collection failure: report, write nothing.
		logger.Error("Collection failed: %v", err)
		fmt.Println(summary)
		os.Exit(1)
	}

	if err := store.Write(records); err != nil {
		logger.Error("CSV write failed: %v", err)
		os.Exit(1)
	}

	logger.Info("Saved %d records to %s", len(records), store.Path())
	fmt.Println(summary)
}

func runRank(cfg *config.Config, logger *utils.Logger, args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	sortMode := fs.String("sort", "rank", "sort mode: rank or price")
	class := fs.String("class", "all", "category class: all, meal or cafe")
	openNow := fs.Bool("open", false, "only show places open now or closing soon")
	parking := fs.Bool("parking", false, "only show places with usable parking")
	priority := fs.String("priority", "", "priority label for keyword bonuses (데이트, 가족, 혼밥, 회식)")
	_ = fs.Parse(args)

	store, err := storage.NewCSVStore(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to open store: %v", err)
		os.Exit(1)
	}

	records, err := store.Read()
	if err != nil {
		if errors.Is(err, storage.ErrNoCollection) {
			fmt.Println("수집된 데이터가 없습니다. 먼저 collect를 실행하세요.")
			os.Exit(1)
		}
		logger.Error("Failed to read records: %v", err)
		os.Exit(1)
	}

	opts := services.RankOptions{
		Sort:        services.SortMode(*sortMode),
		Class:       services.ClassFilter(*class),
		OpenNowOnly: *openNow,
		ParkingOnly: *parking,
		Priority:    *priority,
	}

	ranker := services.NewRanker(cfg.ScoreWeight, logger)
	scored := ranker.Rank(records, opts)
	ranker.Print(scored, opts)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
