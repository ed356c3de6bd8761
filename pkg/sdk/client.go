package placebook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/app"
	"github.com/kailas-cloud/placebook/internal/config"
	healthuc "github.com/kailas-cloud/placebook/internal/usecase/health"
	searchuc "github.com/kailas-cloud/placebook/internal/usecase/search"
	usageuc "github.com/kailas-cloud/placebook/internal/usecase/usage"
	"github.com/kailas-cloud/placebook/internal/validation"
)

const defaultKeyPrefix = "placebook:"

// customProvider labels budget counters and metrics of a WithTagger tagger.
const customProvider = "custom"

var inputValidator = validation.New()

func validate(in any) error { return inputValidator.Struct(in) }

// Client is the placebook SDK entry point.
type Client struct {
	backend   *app.Backend
	services  *app.Services
	searchSvc searchUseCase
	usageSvc  usageUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New connects to the configured store and prepares its tag indexes.
// The provided context bounds the connection and index setup.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("placebook: store required (use WithRedis, WithValkey, WithMongo or WithMemory)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	appCfg := cfg.appConfig()
	backend, err := app.OpenBackend(ctx, appCfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("placebook: %w", err)
	}

	c := wireClient(ctx, backend, cfg, appCfg, obs)
	if err := c.services.EnsureIndexes(ctx); err != nil {
		backend.Close()
		return nil, fmt.Errorf("placebook: %w", err)
	}
	return c, nil
}

// appConfig maps SDK options onto the service configuration with its defaults applied.
func (c *clientConfig) appConfig() config.Config {
	cfg := config.Config{
		Database: config.DatabaseConfig{
			Driver:   c.driver,
			Addrs:    c.addrs,
			Password: c.password,
			URI:      c.mongoURI,
			Name:     c.mongoDB,
		},
		Storage: config.StorageConfig{KeyPrefix: c.keyPrefix},
		AI: config.AIConfig{
			APIKey:  c.openAIKey,
			Model:   c.openAIModel,
			BaseURL: c.openAIBaseURL,
		},
		TagCache: config.TagCacheConfig{Enabled: true},
	}
	cfg.ApplyDefaults()
	return cfg
}

func wireClient(ctx context.Context, backend *app.Backend, cfg *clientConfig, appCfg config.Config, obs *observer) *Client {
	svcs := app.NewServices(backend.Repo)

	var chain *app.TagChain
	if cfg.tagger != nil {
		a := &taggerAdapter{inner: cfg.tagger}
		custom := appCfg
		custom.AI.Provider, custom.AI.Model = customProvider, customProvider
		chain = app.WrapTagger(ctx, custom, a, a, backend.KV, zap.NewNop())
	} else {
		chain = app.BuildTagger(ctx, appCfg, backend.KV, zap.NewNop())
	}

	var checker healthuc.TaggingChecker
	if chain != nil {
		checker = chain.Provider
	}

	c := &Client{
		backend:   backend,
		services:  svcs,
		healthSvc: healthuc.New(backend.Pinger, checker),
		obs:       obs,
	}
	if chain != nil {
		var history searchuc.HistoryRecorder
		if cfg.recordPrompts {
			history = svcs.Prompts
		}
		c.searchSvc = searchuc.New(chain.Generator, svcs.Places, history, zap.NewNop())
		c.usageSvc = usageuc.New(chain.Budget, chain.Counters, svcs.Prompts)
	}
	return c
}

// Close releases all resources.
func (c *Client) Close() {
	if c.backend != nil {
		c.backend.Close()
	}
}

// Ping checks store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("store", "ping", start, err) }()

	if err = c.backend.Pinger.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Places returns the place service.
func (c *Client) Places() *Resource[PlaceInput, Place] {
	return newResource[PlaceInput, Place]("places", c.services.Places, c.obs)
}

// Blogs returns the blog post service.
func (c *Client) Blogs() *Resource[BlogInput, Blog] {
	return newResource[BlogInput, Blog]("blogs", c.services.Blogs, c.obs)
}

// Ratings returns the user rating service.
func (c *Client) Ratings() *Resource[RatingInput, Rating] {
	return newResource[RatingInput, Rating]("user-ratings", c.services.Ratings, c.obs)
}

// Testimonials returns the testimonial service.
func (c *Client) Testimonials() *Resource[TestimonialInput, Testimonial] {
	return newResource[TestimonialInput, Testimonial]("testimonials", c.services.Testimonials, c.obs)
}

// Users returns the user service.
func (c *Client) Users() *Resource[UserInput, User] {
	return newResource[UserInput, User]("users", c.services.Users, c.obs)
}

// ChatHistory returns the chat history service.
func (c *Client) ChatHistory() *Resource[ChatInput, Chat] {
	return newResource[ChatInput, Chat]("chat-history", c.services.ChatHistory, c.obs)
}

// Favorites returns the favorite service.
func (c *Client) Favorites() *Resource[FavoriteInput, Favorite] {
	return newResource[FavoriteInput, Favorite]("favorites", c.services.Favorites, c.obs)
}

// Collections returns the place collection service.
func (c *Client) Collections() *Resource[CollectionInput, Collection] {
	return newResource[CollectionInput, Collection]("collections", c.services.Collections, c.obs)
}

// PromptHistory returns the search prompt history service.
func (c *Client) PromptHistory() *Resource[PromptInput, Prompt] {
	return newResource[PromptInput, Prompt]("prompt-history", c.services.Prompts, c.obs)
}

// About returns the "about" page service.
func (c *Client) About() *Resource[PageInput, Page] {
	return newResource[PageInput, Page]("about", c.services.About, c.obs)
}

// Privacy returns the privacy policy page service.
func (c *Client) Privacy() *Resource[PageInput, Page] {
	return newResource[PageInput, Page]("privacy", c.services.Privacy, c.obs)
}
