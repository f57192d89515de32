package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	VWorldAPIKey string

	CSVOutputPath string
	ChromeBin     string

	// Anti-bot pacing. The randomised typing delay and the fixed pauses are a
	// deliberate mitigation against bot detection on the map portal.
	TypeDelayMinMs int
	TypeDelayMaxMs int
	ScrollPauseMs  int
	RenderPauseMs  int

	FrameRetries    int
	MaxListings     int
	ScoreWeight     int
	GeocodeTimeoutS int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		VWorldAPIKey: getEnv("VWORLD_API_KEY", ""),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/restaurant_list.csv"),
		ChromeBin:     getEnv("CHROME_BIN", ""),

		TypeDelayMinMs: getEnvInt("TYPE_DELAY_MIN_MS", 50),
		TypeDelayMaxMs: getEnvInt("TYPE_DELAY_MAX_MS", 200),
		ScrollPauseMs:  getEnvInt("SCROLL_PAUSE_MS", 1500),
		RenderPauseMs:  getEnvInt("RENDER_PAUSE_MS", 2500),

		FrameRetries:    getEnvInt("FRAME_RETRIES", 3),
		MaxListings:     getEnvInt("MAX_LISTINGS", 100),
		ScoreWeight:     getEnvInt("SCORE_WEIGHT", 10),
		GeocodeTimeoutS: getEnvInt("GEOCODE_TIMEOUT_S", 3),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
