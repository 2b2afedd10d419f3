package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jobsift/jobsift/internal/pipeline"
)

const (
	app = "jobsift"

	defaultCSVFile     = "job_results.csv"
	defaultHTMLFile    = "job_results.html"
	defaultCachePath   = app + ".db"
	defaultHTTPAddress = ":8000"
)

type Config struct {
	Search          *pipeline.Request `mapstructure:"search"`
	DescriptionFile string            `mapstructure:"description-file"`
	NoiseWords      []string          `mapstructure:"noise-words"`
	Provider        *ProviderConfig   `mapstructure:"provider"`
	Embedding       *EmbeddingConfig  `mapstructure:"embedding"`
	Cache           *CacheConfig      `mapstructure:"cache"`
	Output          *OutputConfig     `mapstructure:"output"`
	Serve           *ServeConfig      `mapstructure:"serve"`
}

// ProviderConfig holds the JSearch (RapidAPI) credentials and endpoint.
type ProviderConfig struct {
	BaseURL    string `mapstructure:"base-url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type EmbeddingConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type OutputConfig struct {
	CSVFile  string `mapstructure:"csv-file"`
	HTMLFile string `mapstructure:"html-file"`
}

type ServeConfig struct {
	Address string `mapstructure:"address"`
}

// searchRequest returns a copy of the configured search section, never nil.
func (c *Config) searchRequest() *pipeline.Request {
	if c == nil || c.Search == nil {
		return &pipeline.Request{}
	}

	req := *c.Search

	return &req
}

func (c *Config) descriptionFile() string {
	if c == nil {
		return ""
	}

	return strings.TrimSpace(c.DescriptionFile)
}

func (c *Config) noiseWords() []string {
	if c == nil {
		return nil
	}

	return c.NoiseWords
}

func (c *Config) embedding() *EmbeddingConfig {
	if c == nil || c.Embedding == nil {
		return &EmbeddingConfig{}
	}

	return c.Embedding
}

func (e *EmbeddingConfig) gemini() *GeminiConfig {
	if e == nil || e.Gemini == nil {
		return &GeminiConfig{}
	}

	return e.Gemini
}

func (c *Config) cacheEnabled() bool {
	return c != nil && c.Cache != nil && c.Cache.Enabled
}

func (c *Config) cachePath() string {
	if c != nil && c.Cache != nil && strings.TrimSpace(c.Cache.Path) != "" {
		return c.Cache.Path
	}

	return defaultCachePath
}

func (c *Config) csvFile() string {
	if c != nil && c.Output != nil && strings.TrimSpace(c.Output.CSVFile) != "" {
		return c.Output.CSVFile
	}

	return defaultCSVFile
}

func (c *Config) htmlFile() string {
	if c != nil && c.Output != nil && strings.TrimSpace(c.Output.HTMLFile) != "" {
		return c.Output.HTMLFile
	}

	return defaultHTMLFile
}

func (c *Config) serveAddress() string {
	if c != nil && c.Serve != nil && strings.TrimSpace(c.Serve.Address) != "" {
		return c.Serve.Address
	}

	return defaultHTTPAddress
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobsift is a cli for matching a skill profile against live job postings and ranking them by semantic fit",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("provider.api-key-file", "RAPIDAPI_KEY_FILE"); err != nil {
		log.Fatalf("binding RAPIDAPI_KEY_FILE environment variable: %v", err)
	}

	if err := viper.BindEnv("embedding.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is jobsift.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config is needed only for the search and serve commands.
	if searchCmd.CalledAs() == "" && serveCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// The implicit config file is optional: flags and environment
		// variables can carry a full configuration on their own.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}

		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
