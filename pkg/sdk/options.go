package placebook

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

// Store drivers.
const (
	driverRedis  = "redis"
	driverValkey = "valkey"
	driverMongo  = "mongo"
	driverMemory = "memory"
)

type clientConfig struct {
	driver   string
	addrs    []string
	password string
	mongoURI string
	mongoDB  string

	keyPrefix string

	tagger        Tagger
	openAIKey     string
	openAIModel   string
	openAIBaseURL string
	recordPrompts bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey stores documents in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverValkey
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores documents in a Redis 8+ instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMongo stores documents in a MongoDB database.
func WithMongo(uri, database string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMongo
		c.mongoURI = uri
		c.mongoDB = database
	})
}

// WithMemory keeps documents in process memory. Useful for tests.
func WithMemory() Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverMemory
	})
}

// WithKeyPrefix sets the key namespace for Redis and Valkey.
// Default: "placebook:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithTagger sets the tag provider used by Search.
func WithTagger(t Tagger) Option {
	return optionFunc(func(c *clientConfig) {
		c.tagger = t
	})
}

// WithOpenAI uses an OpenAI chat model as the tag provider.
// Ignored when WithTagger is also given.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIModel = model
	})
}

// WithOpenAIBaseURL points WithOpenAI at an OpenAI-compatible endpoint.
func WithOpenAIBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIBaseURL = url
	})
}

// WithPromptHistory records every successful search in the prompt history.
func WithPromptHistory() Option {
	return optionFunc(func(c *clientConfig) {
		c.recordPrompts = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
