package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultPath = "./config/application.yaml"
	EnvPrefix   = "CITYPULSE_"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Application struct {
	Server       Server       `koanf:"server"`
	City         City         `koanf:"city"`
	Ticketmaster Ticketmaster `koanf:"ticketmaster"`
	Scraper      Scraper      `koanf:"scraper"`
	News         News         `koanf:"news"`
	Backend      Backend      `koanf:"backend"`
	Storage      Storage      `koanf:"storage"`
	Database     Database     `koanf:"db"`
}

type Server struct {
	Addr          string `koanf:"addr"`
	AllowedOrigin string `koanf:"allowedorigin"`
}

type City struct {
	Name        string `koanf:"name"`
	CountryCode string `koanf:"countrycode"`
}

type Ticketmaster struct {
	ApiKey   string        `koanf:"apikey"`
	BaseURL  string        `koanf:"baseurl"`
	CacheTTL time.Duration `koanf:"cachettl"`
}

type Scraper struct {
	URL       string        `koanf:"url"`
	UserAgent string        `koanf:"useragent"`
	CacheTTL  time.Duration `koanf:"cachettl"`
}

type News struct {
	ApiKey   string `koanf:"apikey"`
	BaseURL  string `koanf:"baseurl"`
	Keyword  string `koanf:"keyword"`
	Language string `koanf:"language"`
}

type Backend struct {
	URL string `koanf:"url"`
}

type Storage struct {
	Type string `koanf:"type"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func defaults() Application {
	return Application{
		Server: Server{
			Addr:          ":8181",
			AllowedOrigin: "*",
		},
		City: City{
			Name:        "Chandigarh",
			CountryCode: "IN",
		},
		Ticketmaster: Ticketmaster{
			BaseURL:  "https://app.ticketmaster.com",
			CacheTTL: time.Hour,
		},
		Scraper: Scraper{
			URL:      "https://allevents.in/chandigarh/all",
			CacheTTL: 30 * time.Minute,
		},
		News: News{
			BaseURL:  "https://newsapi.org",
			Keyword:  "chandigarh",
			Language: "en",
		},
		Storage: Storage{
			Type: StorageMemory,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "citypulse",
			Pass:   "",
			Name:   "citypulse",
			Schema: "public",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, EnvPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	applyWellKnownEnv(&app)

	if err := app.Validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

// applyWellKnownEnv fills credentials from the unprefixed variables commonly set for
// these providers when the prefixed ones are absent.
func applyWellKnownEnv(app *Application) {
	if app.Ticketmaster.ApiKey == "" {
		app.Ticketmaster.ApiKey = os.Getenv("TICKETMASTER_API_KEY")
	}
	if app.News.ApiKey == "" {
		app.News.ApiKey = os.Getenv("NEWS_API_KEY")
	}
	if app.Backend.URL == "" {
		app.Backend.URL = os.Getenv("BACKEND_URL")
	}
}

func (a Application) Validate() error {
	switch a.Storage.Type {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unsupported storage type %q (expected %s or %s)", a.Storage.Type, StorageMemory, StoragePostgres)
	}
	if a.City.Name == "" {
		return fmt.Errorf("city name must not be empty")
	}
	return nil
}
