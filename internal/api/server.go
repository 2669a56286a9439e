package api

import (
	"context"

	"github.com/juiceai/juice-server/internal/config"
	"github.com/juiceai/juice-server/internal/domain"
	"github.com/juiceai/juice-server/internal/extractor"
	"github.com/juiceai/juice-server/internal/render"
	"github.com/juiceai/juice-server/internal/service/campaign"
	"github.com/juiceai/juice-server/internal/service/contact"
)

// Extractor is the extraction-service client contract the relay consumes.
type Extractor interface {
	Extract(ctx context.Context, source string, sourceType extractor.SourceType) ([]extractor.ExtractedContact, error)
}

// UserStore is the persistence contract for the single user record.
type UserStore interface {
	Get(ctx context.Context) (*domain.User, error)
	Save(ctx context.Context, u *domain.User) (*domain.User, error)
}

// Server bundles the controllers and collaborators the HTTP handlers
// need. All dependencies are injected at construction.
type Server struct {
	cfg       *config.Config
	contacts  *contact.Service
	campaigns *campaign.Service
	users     UserStore
	extractor Extractor
	renderer  *render.TemplateService
}

// NewServer creates the HTTP server facade.
func NewServer(
	cfg *config.Config,
	contacts *contact.Service,
	campaigns *campaign.Service,
	users UserStore,
	ex Extractor,
	renderer *render.TemplateService,
) *Server {
	return &Server{
		cfg:       cfg,
		contacts:  contacts,
		campaigns: campaigns,
		users:     users,
		extractor: ex,
		renderer:  renderer,
	}
}
