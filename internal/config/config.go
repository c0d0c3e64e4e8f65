package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	FeedURL            string        `env:"FEED_URL"             envDefault:"https://drinkyouroj.substack.com/feed"`
	ArchiveURLTemplate string        `env:"ARCHIVE_URL_TEMPLATE" envDefault:"https://drinkyouroj.substack.com/api/v1/archive?limit=%d"`
	ProxyURLTemplate   string        `env:"PROXY_URL_TEMPLATE"   envDefault:"https://r.jina.ai/http://%s"`
	SiteURL            string        `env:"SITE_URL"             envDefault:"https://drinkyouroj.substack.com"`
	SiteTitle          string        `env:"SITE_TITLE"           envDefault:"The Civic Node"`
	OutputPath         string        `env:"OUTPUT_PATH"          envDefault:"assets/substack.json"`
	PostLimit          int           `env:"POST_LIMIT"           envDefault:"6"`
	MaxRetries         int           `env:"MAX_RETRIES"          envDefault:"3"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT"        envDefault:"30s"`
}

func LoadConfig() Config {
	var cfg Config
	env.Must(cfg, env.Parse(&cfg))
	return cfg
}
