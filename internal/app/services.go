// Package app wires configuration, storage, tagging and HTTP into a runnable service.
package app

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/placebook/internal/domain/blog"
	"github.com/kailas-cloud/placebook/internal/domain/chat"
	"github.com/kailas-cloud/placebook/internal/domain/collection"
	"github.com/kailas-cloud/placebook/internal/domain/favorite"
	"github.com/kailas-cloud/placebook/internal/domain/page"
	"github.com/kailas-cloud/placebook/internal/domain/place"
	"github.com/kailas-cloud/placebook/internal/domain/prompt"
	"github.com/kailas-cloud/placebook/internal/domain/rating"
	"github.com/kailas-cloud/placebook/internal/domain/testimonial"
	"github.com/kailas-cloud/placebook/internal/domain/user"
	chiTransport "github.com/kailas-cloud/placebook/internal/transport/chi"
	"github.com/kailas-cloud/placebook/internal/usecase/entity"
)

// Services holds one entity service per resource kind.
type Services struct {
	Places       *entity.Service[place.Input, place.Document, place.View]
	Blogs        *entity.Service[blog.Input, blog.Document, blog.View]
	Ratings      *entity.Service[rating.Input, rating.Document, rating.View]
	Testimonials *entity.Service[testimonial.Input, testimonial.Document, testimonial.View]
	Users        *entity.Service[user.Input, user.Document, user.View]
	ChatHistory  *entity.Service[chat.Input, chat.Document, chat.View]
	Favorites    *entity.Service[favorite.Input, favorite.Document, favorite.View]
	Collections  *entity.Service[collection.Input, collection.Document, collection.View]
	Prompts      *entity.Service[prompt.Input, prompt.Document, prompt.View]
	About        *entity.Service[page.Input, page.Document, page.View]
	Privacy      *entity.Service[page.Input, page.Document, page.View]
}

// NewServices creates the resource services over one repository.
func NewServices(repo entity.Repository) *Services {
	return &Services{
		Places:       entity.New[place.Input, place.Document, place.View](repo, place.Kind{}),
		Blogs:        entity.New[blog.Input, blog.Document, blog.View](repo, blog.Kind{}),
		Ratings:      entity.New[rating.Input, rating.Document, rating.View](repo, rating.Kind{}),
		Testimonials: entity.New[testimonial.Input, testimonial.Document, testimonial.View](repo, testimonial.Kind{}),
		Users:        entity.New[user.Input, user.Document, user.View](repo, user.Kind{}),
		ChatHistory:  entity.New[chat.Input, chat.Document, chat.View](repo, chat.Kind{}),
		Favorites:    entity.New[favorite.Input, favorite.Document, favorite.View](repo, favorite.Kind{}),
		Collections:  entity.New[collection.Input, collection.Document, collection.View](repo, collection.Kind{}),
		Prompts:      entity.New[prompt.Input, prompt.Document, prompt.View](repo, prompt.Kind{}),
		About:        entity.New[page.Input, page.Document, page.View](repo, page.NewKind(page.About)),
		Privacy:      entity.New[page.Input, page.Document, page.View](repo, page.NewKind(page.Privacy)),
	}
}

// EnsureIndexes creates the tag indexes of the searchable kinds. Safe to repeat.
func (s *Services) EnsureIndexes(ctx context.Context) error {
	indexers := []interface {
		EnsureIndex(ctx context.Context) error
	}{s.Places, s.Blogs, s.Prompts}
	for _, ix := range indexers {
		if err := ix.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
	}
	return nil
}

// Resources returns the REST collections served under /api.
func (s *Services) Resources() []chiTransport.Resource {
	return []chiTransport.Resource{
		chiTransport.NewResource[place.Input, place.View]("places", s.Places).WithAttachments(place.Kind{}),
		chiTransport.NewResource[blog.Input, blog.View]("blogs", s.Blogs).WithAttachments(blog.Kind{}),
		chiTransport.NewResource[rating.Input, rating.View]("user-ratings", s.Ratings),
		chiTransport.NewResource[testimonial.Input, testimonial.View]("testimonials", s.Testimonials).WithAttachments(testimonial.Kind{}),
		chiTransport.NewResource[user.Input, user.View]("users", s.Users).WithAttachments(user.Kind{}),
		chiTransport.NewResource[chat.Input, chat.View]("chat-history", s.ChatHistory),
		chiTransport.NewResource[favorite.Input, favorite.View]("favorites", s.Favorites),
		chiTransport.NewResource[collection.Input, collection.View]("collections", s.Collections),
		chiTransport.NewResource[prompt.Input, prompt.View]("prompt-history", s.Prompts),
		chiTransport.NewResource[page.Input, page.View]("about", s.About),
		chiTransport.NewResource[page.Input, page.View]("privacy", s.Privacy),
	}
}
