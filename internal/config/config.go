// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-job-listing-scraper/internal/filter"
	"go-job-listing-scraper/internal/models"
	"go-job-listing-scraper/internal/scraper"
	"go-job-listing-scraper/internal/scraper/indeed"
)

const (
	DefaultPath          = "configs/config.yaml"
	DefaultPagesToScrape = 5
	DefaultCrawlDelay    = 10
)

type Config struct {
	//Search criteria
	IndeedCriteria IndeedCriteria `yaml:"indeed_criteria"`
	ExcludedWords  []string       `yaml:"excluded_keywords"`
	Headers        []string       `yaml:"csv_headers"`
	Spreadsheet    Spreadsheet    `yaml:"csv_settings"`
	//Crawl pacing
	PagesToScrape *int `yaml:"num_pages_to_scrape"`
	CrawlDelay    *int `yaml:"crawl_delay"`
	//Browser
	Headless      *bool  `yaml:"headless"`
	CookiesPath   string `yaml:"cookies_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	//Side effects
	HistoryDBPath  string `yaml:"history_db_path"`
	Schedule       string `yaml:"schedule"`
	ServerAddr     string `yaml:"server_addr"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
}

type IndeedCriteria struct {
	indeed.Criteria `yaml:",inline"`
	UserYears       string `yaml:"user_years_of_experience"`
}

type Spreadsheet struct {
	Path             string `yaml:"excel_output_path"`
	UpdateOnComplete *bool  `yaml:"update_spreadsheet_on_completion"`
}

// Load reads .env, then the YAML file at path (DefaultPath when empty), then
// applies environment overrides and defaults and validates the result.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML without touching the environment or defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	//Override with env vars
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		c.TelegramToken = token
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.DatabaseURL = dsn
	}
	if path := os.Getenv("EXCEL_OUTPUT_PATH"); path != "" {
		c.Spreadsheet.Path = path
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.PagesToScrape == nil {
		c.PagesToScrape = intPtr(DefaultPagesToScrape)
	}
	if c.CrawlDelay == nil {
		c.CrawlDelay = intPtr(DefaultCrawlDelay)
	}
	if c.Headless == nil {
		c.Headless = boolPtr(true)
	}
	if c.Spreadsheet.UpdateOnComplete == nil {
		c.Spreadsheet.UpdateOnComplete = boolPtr(true)
	}
	if c.Spreadsheet.Path == "" {
		c.Spreadsheet.Path = "jobs.xlsx"
	}
	if len(c.Headers) == 0 {
		for _, f := range models.KnownFields {
			c.Headers = append(c.Headers, string(f))
		}
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = filepath.Join("logs", "screenshots")
	}
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.IndeedCriteria.Position) == "" {
		return fmt.Errorf("indeed_criteria.position is required")
	}
	if c.PagesToScrape != nil && *c.PagesToScrape < 0 {
		return fmt.Errorf("num_pages_to_scrape must not be negative, got %d", *c.PagesToScrape)
	}
	if c.CrawlDelay != nil && *c.CrawlDelay < 0 {
		return fmt.Errorf("crawl_delay must not be negative, got %d", *c.CrawlDelay)
	}
	if ext := strings.ToLower(filepath.Ext(c.Spreadsheet.Path)); ext != ".xlsx" {
		return fmt.Errorf("excel_output_path must be an .xlsx file, got %q", c.Spreadsheet.Path)
	}
	if c.TelegramToken != "" && c.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}

// Fields is the configured column order.
func (c *Config) Fields() []models.Field {
	return models.ParseFields(c.Headers)
}

// ShouldMaterialize reports whether a run writes the spreadsheet when it ends.
func (c *Config) ShouldMaterialize() bool {
	return c.Spreadsheet.UpdateOnComplete == nil || *c.Spreadsheet.UpdateOnComplete
}

// RunSettings snapshots everything a crawl needs. The returned value shares
// nothing with c.
func (c *Config) RunSettings() scraper.Settings {
	return scraper.Settings{
		StartURL:       indeed.BuildSearchURL(c.IndeedCriteria.Criteria),
		Fields:         c.Fields(),
		Excluded:       filter.NewPhraseSet(c.ExcludedWords),
		UserMaxYears:   strings.TrimSpace(c.IndeedCriteria.UserYears),
		CrawlDelay:     derefInt(c.CrawlDelay, DefaultCrawlDelay),
		MaxPages:       derefInt(c.PagesToScrape, DefaultPagesToScrape),
		SearchCriteria: c.IndeedCriteria.Summary(),
		ReadyAttempts:  scraper.DefaultReadyAttempts,
		ReadyTimeout:   scraper.DefaultReadyTimeout,
	}
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
