package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-matcher/internal/scoring"
)

const (
	app = "resume-matcher"
)

type Config struct {
	Server  *ServerConfig   `mapstructure:"server"`
	Uploads *UploadsConfig  `mapstructure:"uploads"`
	Reports *ReportsConfig  `mapstructure:"reports"`
	Skills  []scoring.Skill `mapstructure:"skills"`
}

type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	Port      string `mapstructure:"port"`
	BodyLimit int    `mapstructure:"body-limit"`
	AccessLog bool   `mapstructure:"access-log"`
	CORS      string `mapstructure:"cors-origins"`
}

type UploadsConfig struct {
	Backend string    `mapstructure:"backend"`
	Dir     string    `mapstructure:"dir"`
	MaxSize int64     `mapstructure:"max-size"`
	S3      *S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	Prefix string `mapstructure:"prefix"`
}

type ReportsConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   *RedisConfig  `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr         string `mapstructure:"addr"`
	PasswordFile string `mapstructure:"password-file"`
	DB           int    `mapstructure:"db"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-matcher scores résumés against job descriptions by keyword skill matching",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"reports.redis.password-file": "RESUME_MATCHER_REDIS_PASSWORD_FILE",
		"uploads.s3.bucket":           "AWS_BUCKET",
		"server.port":                 "PORT",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("uploads.backend", "local")
	viper.SetDefault("uploads.dir", "uploads")
	viper.SetDefault("uploads.s3.prefix", "uploads")
	viper.SetDefault("reports.backend", "memory")
	viper.SetDefault("reports.ttl", "24h")
	viper.SetDefault("reports.redis.addr", "localhost:6379")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-matcher.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// Every key has a default, so only an explicit config file is mandatory.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if config == nil {
		config = &Config{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}
	if config.Uploads == nil {
		config.Uploads = &UploadsConfig{}
	}
	if config.Uploads.S3 == nil {
		config.Uploads.S3 = &S3Config{}
	}
	if config.Reports == nil {
		config.Reports = &ReportsConfig{}
	}
	if config.Reports.Redis == nil {
		config.Reports.Redis = &RedisConfig{}
	}

	return config, nil
}

// listenAddr prefers PORT when it is set, as hosting platforms expect.
func (c *ServerConfig) listenAddr() string {
	if c.Port != "" {
		return ":" + c.Port
	}
	return c.Listen
}

// taxonomy returns the configured skill list or the built-in one.
func (c *Config) taxonomy() (*scoring.Taxonomy, error) {
	if len(c.Skills) == 0 {
		return scoring.DefaultTaxonomy(), nil
	}
	tax, err := scoring.NewTaxonomy(c.Skills)
	if err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	return tax, nil
}
