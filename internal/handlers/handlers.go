package handlers

import (
	"github.com/zfogg/curlmap/backend/internal/directory"
	"github.com/zfogg/curlmap/backend/internal/mentions"
	"github.com/zfogg/curlmap/backend/internal/repository"
	"github.com/zfogg/curlmap/backend/internal/spamguard"
	"gorm.io/gorm"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	forum     repository.ForumRepository
	blog      repository.BlogRepository
	analytics repository.AnalyticsRepository
	guard     *spamguard.Guard
	mentions  *mentions.Detector
	directory *directory.Service
	db        *gorm.DB
}

// NewHandlers creates a new handlers instance backed by db
func NewHandlers(db *gorm.DB) *Handlers {
	return &Handlers{
		forum:     repository.NewForumRepository(db),
		blog:      repository.NewBlogRepository(db),
		analytics: repository.NewAnalyticsRepository(db),
		db:        db,
	}
}

// SetSpamGuard sets the guard screening forum writes
func (h *Handlers) SetSpamGuard(guard *spamguard.Guard) {
	h.guard = guard
}

// SetMentionDetector sets the detector tagging new topics with stylist ids
func (h *Handlers) SetMentionDetector(detector *mentions.Detector) {
	h.mentions = detector
}

// SetDirectoryService sets the cached directory
func (h *Handlers) SetDirectoryService(svc *directory.Service) {
	h.directory = svc
}
