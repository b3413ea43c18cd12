package configs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL   = "http://localhost:8080/api"
	DefaultEmulatorHost = "localhost:9099"
	DefaultCallbackPort = 8765
	defaultTimeout      = 30 * time.Second
)

type Config struct {
	Env         string `yaml:"env"`
	Development bool   `yaml:"development"`

	API struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Firebase struct {
		APIKey            string `yaml:"api_key"`
		AuthDomain        string `yaml:"auth_domain"`
		ProjectID         string `yaml:"project_id"`
		StorageBucket     string `yaml:"storage_bucket"`
		MessagingSenderID string `yaml:"messaging_sender_id"`
		AppID             string `yaml:"app_id"`
		MeasurementID     string `yaml:"measurement_id"`
		UseEmulator       bool   `yaml:"use_emulator"`
		EmulatorHost      string `yaml:"emulator_host"`
	} `yaml:"firebase"`

	Google struct {
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
		CallbackPort int    `yaml:"callback_port"`
	} `yaml:"google"`

	Redis struct {
		Addr     string `yaml:"redis_addr"`
		Password string `yaml:"redis_password"`
		DB       int    `yaml:"redis_db"`
	} `yaml:"redis"`

	Session struct {
		File    string `yaml:"file"`
		Key     string `yaml:"sealing_key"`
		Profile string `yaml:"profile"`
	} `yaml:"session"`
}

// environment carries the variables that override the yaml file. The
// REACT_APP_* names are kept so an existing storefront .env can be reused.
type environment struct {
	APIBaseURL string `envconfig:"REACT_APP_API_BASE_URL"`
	APITimeout string `envconfig:"STOREFRONT_API_TIMEOUT"`

	FirebaseAPIKey            string `envconfig:"REACT_APP_FIREBASE_API_KEY"`
	FirebaseAuthDomain        string `envconfig:"REACT_APP_FIREBASE_AUTH_DOMAIN"`
	FirebaseProjectID         string `envconfig:"REACT_APP_FIREBASE_PROJECT_ID"`
	FirebaseStorageBucket     string `envconfig:"REACT_APP_FIREBASE_STORAGE_BUCKET"`
	FirebaseMessagingSenderID string `envconfig:"REACT_APP_FIREBASE_MESSAGING_SENDER_ID"`
	FirebaseAppID             string `envconfig:"REACT_APP_FIREBASE_APP_ID"`
	FirebaseMeasurementID     string `envconfig:"REACT_APP_FIREBASE_MEASUREMENT_ID"`
	UseEmulator               *bool  `envconfig:"REACT_APP_USE_FIREBASE_EMULATOR"`
	EmulatorHost              string `envconfig:"FIREBASE_AUTH_EMULATOR_HOST"`
	NodeEnv                   string `envconfig:"NODE_ENV"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackPort int    `envconfig:"GOOGLE_CALLBACK_PORT"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       *int   `envconfig:"REDIS_DB"`

	SessionFile    string `envconfig:"STOREFRONT_SESSION_FILE"`
	SessionKey     string `envconfig:"STOREFRONT_SESSION_KEY"`
	SessionProfile string `envconfig:"STOREFRONT_PROFILE"`
}

// Load reads the yaml file for env (or path when given), then applies
// .env and process environment overrides.
func Load(env, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := defaults(env)

	if path == "" {
		configFile := "dev.yml"
		if env == "production" {
			configFile = "prod.yml"
		}
		path = filepath.Join("internal", "configs", configFile)
	}

	if err := decodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Printf("No config file at %s, using defaults", path)
	}

	var overrides environment
	if err := envconfig.Process("", &overrides); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := overrides.apply(cfg); err != nil {
		return nil, err
	}

	expandConfig(cfg)
	return cfg, nil
}

func defaults(env string) *Config {
	cfg := &Config{Env: env, Development: env != "production"}
	cfg.API.BaseURL = DefaultAPIBaseURL
	cfg.API.Timeout = defaultTimeout
	cfg.Firebase.EmulatorHost = DefaultEmulatorHost
	cfg.Google.CallbackPort = DefaultCallbackPort
	cfg.Session.Profile = "default"
	if home, err := os.UserHomeDir(); err == nil {
		cfg.Session.File = filepath.Join(home, ".storefront", "session.yml")
	}
	return cfg
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	log.Printf("Loading config from: %s", path)

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (e environment) apply(cfg *Config) error {
	setString(&cfg.API.BaseURL, e.APIBaseURL)
	if e.APITimeout != "" {
		d, err := time.ParseDuration(e.APITimeout)
		if err != nil {
			return fmt.Errorf("invalid STOREFRONT_API_TIMEOUT %q: %w", e.APITimeout, err)
		}
		cfg.API.Timeout = d
	}

	setString(&cfg.Firebase.APIKey, e.FirebaseAPIKey)
	setString(&cfg.Firebase.AuthDomain, e.FirebaseAuthDomain)
	setString(&cfg.Firebase.ProjectID, e.FirebaseProjectID)
	setString(&cfg.Firebase.StorageBucket, e.FirebaseStorageBucket)
	setString(&cfg.Firebase.MessagingSenderID, e.FirebaseMessagingSenderID)
	setString(&cfg.Firebase.AppID, e.FirebaseAppID)
	setString(&cfg.Firebase.MeasurementID, e.FirebaseMeasurementID)
	setString(&cfg.Firebase.EmulatorHost, e.EmulatorHost)
	if e.UseEmulator != nil {
		cfg.Firebase.UseEmulator = *e.UseEmulator
	}
	if e.NodeEnv != "" {
		cfg.Development = e.NodeEnv == "development"
	}

	setString(&cfg.Google.ClientID, e.GoogleClientID)
	setString(&cfg.Google.ClientSecret, e.GoogleClientSecret)
	if e.GoogleCallbackPort != 0 {
		cfg.Google.CallbackPort = e.GoogleCallbackPort
	}

	setString(&cfg.Redis.Addr, e.RedisAddr)
	setString(&cfg.Redis.Password, e.RedisPassword)
	if e.RedisDB != nil {
		cfg.Redis.DB = *e.RedisDB
	}

	setString(&cfg.Session.File, e.SessionFile)
	setString(&cfg.Session.Key, e.SessionKey)
	setString(&cfg.Session.Profile, e.SessionProfile)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// expandConfig resolves ${VAR} references left in the yaml secrets.
func expandConfig(cfg *Config) {
	cfg.Firebase.APIKey = os.ExpandEnv(cfg.Firebase.APIKey)
	cfg.Google.ClientSecret = os.ExpandEnv(cfg.Google.ClientSecret)
	cfg.Redis.Password = os.ExpandEnv(cfg.Redis.Password)
	cfg.Session.Key = os.ExpandEnv(cfg.Session.Key)
	cfg.API.BaseURL = strings.TrimRight(os.ExpandEnv(cfg.API.BaseURL), "/")
}

// AuthEnabled reports whether enough provider credentials are present to
// talk to the identity provider.
func (c *Config) AuthEnabled() bool {
	return c.Firebase.APIKey != "" && c.Firebase.ProjectID != ""
}

// EmulatorEnabled mirrors the storefront rule: the auth emulator is only
// used by development builds that opt in.
func (c *Config) EmulatorEnabled() bool {
	return c.Development && c.Firebase.UseEmulator
}

func (c *Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != ""
}
