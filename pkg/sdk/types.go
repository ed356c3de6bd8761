package placebook

import (
	"github.com/kailas-cloud/placebook/internal/domain"
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
)

// Resource payloads and stored views.
type (
	PlaceInput = place.Input
	Place      = place.View
	Location   = place.Location
	Coordinate = place.Coordinate

	BlogInput = blog.Input
	Blog      = blog.View

	RatingInput = rating.Input
	Rating      = rating.View

	TestimonialInput = testimonial.Input
	Testimonial      = testimonial.View

	UserInput = user.Input
	User      = user.View

	ChatInput   = chat.Input
	ChatMessage = chat.Message
	Chat        = chat.View

	FavoriteInput = favorite.Input
	Favorite      = favorite.View

	CollectionInput = collection.Input
	Collection      = collection.View

	PromptInput = prompt.Input
	Prompt      = prompt.View

	PageInput = page.Input
	Page      = page.View
)

// Refusal statuses.
const (
	RefusalRefused       = domain.RefusalStatusRefused
	RefusalContentFilter = domain.RefusalStatusContentFilter
	RefusalUnsupported   = domain.RefusalStatusUnsupported
)

// Refusal explains why a tagger declined a prompt.
type Refusal struct {
	Reason string
	Status string
}

// TagResult is the outcome of one Tagger call. A non-nil Refusal wins over Tags.
type TagResult struct {
	Tags         []string
	Refusal      *Refusal
	PromptTokens int
	TotalTokens  int
}

// SearchResult is the outcome of a tag search.
// Exactly one of Refusal or (Tags, Places) is meaningful.
type SearchResult struct {
	Tags    []string
	Places  []Place
	Refusal *Refusal
	Usage   SearchUsage
}

// SearchUsage reports tag generation cost of one search.
type SearchUsage struct {
	TotalTokens int
	Cached      bool
}
