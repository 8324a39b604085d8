package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/models"
	"github.com/zfogg/curlmap/backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Rochester bounding box used for seeded coordinates
const (
	minLat = 43.08
	maxLat = 43.26
	minLng = -77.75
	maxLng = -77.45
)

var forumTags = []string{"Help", "Products", "Reviews", "Techniques", "Salons", "Routines"}

// Seeder handles database seeding operations
type Seeder struct {
	db    *gorm.DB
	forum repository.ForumRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	// Note: Seed returns an error only for invalid sources, time.Now().UnixNano() is always valid
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:    db,
		forum: repository.NewForumRepository(db),
	}
}

// SeedDev seeds the development database with realistic data
func (s *Seeder) SeedDev(ctx context.Context) error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating certifications...")
	certs, err := s.seedCertifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed certifications: %w", err)
	}

	log("Creating salons and stylists...")
	stylists, err := s.seedSalons(ctx, certs, 25)
	if err != nil {
		return fmt.Errorf("failed to seed salons: %w", err)
	}

	log("Creating forum topics...")
	if err := s.seedForum(ctx, stylists, 40); err != nil {
		return fmt.Errorf("failed to seed forum: %w", err)
	}

	log("Creating blog posts...")
	if err := s.seedBlogPosts(ctx, 8); err != nil {
		return fmt.Errorf("failed to seed blog posts: %w", err)
	}

	return nil
}

// SeedTest seeds a small fixed data set for end-to-end tests
func (s *Seeder) SeedTest(ctx context.Context) error {
	certs, err := s.seedCertifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed certifications: %w", err)
	}

	fixtures := []struct {
		salonID  string
		salon    string
		address  string
		lat, lng float64
		stylists []string
	}{
		{"test-salon-1", "Curl Studio", "100 Main St", 43.1566, -77.6088, []string{"Jane Doe", "Maria Lopez"}},
		{"test-salon-2", "Wave Lab", "250 East Ave", 43.1530, -77.5900, []string{"Alex Kim"}},
	}

	var stylists []models.Stylist
	for i, fx := range fixtures {
		salon := models.Salon{
			ID:            fx.salonID,
			Name:          fx.salon,
			StreetAddress: fx.address,
			City:          "Rochester",
			State:         "NY",
			ZipCode:       "14604",
			FullAddress:   fx.address + ", Rochester, NY 14604",
			Lat:           &fx.lat,
			Lng:           &fx.lng,
		}
		if err := s.db.WithContext(ctx).Create(&salon).Error; err != nil {
			return fmt.Errorf("failed to create test salon %s: %w", fx.salon, err)
		}

		for j, name := range fx.stylists {
			stylist := models.Stylist{
				ID:             fmt.Sprintf("test-stylist-%d-%d", i+1, j+1),
				SalonID:        salon.ID,
				Name:           name,
				Verified:       true,
				Certifications: []models.Certification{certs[j%len(certs)]},
			}
			if err := s.db.WithContext(ctx).Create(&stylist).Error; err != nil {
				return fmt.Errorf("failed to create test stylist %s: %w", name, err)
			}
			stylists = append(stylists, stylist)
		}
	}

	topic := &models.Topic{
		Title:               "Welcome to the forum",
		Content:             "Say hello and share who does your curls. Jane Doe is a great start.",
		Tags:                models.StringArray{"Help"},
		MentionedStylistIDs: models.StringArray{stylists[0].ID},
	}
	if err := s.forum.CreateTopic(ctx, topic); err != nil {
		return fmt.Errorf("failed to create test topic: %w", err)
	}
	reply := &models.Reply{TopicID: topic.ID, Content: "Hello everyone, glad to be here."}
	if err := s.forum.CreateReply(ctx, reply); err != nil {
		return fmt.Errorf("failed to create test reply: %w", err)
	}

	post := models.BlogPost{
		Slug:        "welcome",
		Title:       "Welcome",
		Excerpt:     "What this directory is for.",
		Content:     "A curated list of curl specialists.",
		Tags:        models.StringArray{"news"},
		Featured:    true,
		PublishedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return fmt.Errorf("failed to create test blog post: %w", err)
	}
	return nil
}

// Clean removes all seed data (use with caution!)
func (s *Seeder) Clean(ctx context.Context) error {
	// Delete in reverse order of dependencies
	tables := []string{
		"forum_replies",
		"forum_topics",
		"stylist_certifications",
		"stylists",
		"salons",
		"certifications",
		"blog_posts",
	}
	for _, table := range tables {
		if err := s.db.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clean %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) seedCertifications(ctx context.Context) ([]models.Certification, error) {
	fixtures := []struct {
		id, name, org, level string
	}{
		{"devacut", "DevaCut", "DevaCurl Academy", "Advanced"},
		{"rezo", "Rezo Cut", "Rezo Salon", "Certified"},
		{"curly-girl", "Curly Girl Method", "CGM Collective", "Foundation"},
		{"ouidad", "Ouidad Carve & Slice", "Ouidad", "Master"},
	}

	certs := make([]models.Certification, 0, len(fixtures))
	for _, fx := range fixtures {
		cert := models.Certification{
			ID:           fx.id,
			Name:         fx.name,
			Organization: &fx.org,
			Level:        &fx.level,
		}
		if err := s.db.WithContext(ctx).Where("id = ?", cert.ID).FirstOrCreate(&cert).Error; err != nil {
			return nil, fmt.Errorf("failed to create certification %s: %w", fx.id, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

// seedSalons creates salons with one to four stylists each
func (s *Seeder) seedSalons(ctx context.Context, certs []models.Certification, count int) ([]models.Stylist, error) {
	var stylists []models.Stylist

	for i := 0; i < count; i++ {
		street := gofakeit.Street()
		zip := gofakeit.Zip()
		lat := gofakeit.Float64Range(minLat, maxLat)
		lng := gofakeit.Float64Range(minLng, maxLng)
		phone := gofakeit.Phone()
		website := gofakeit.URL()

		salon := models.Salon{
			ID:            uuid.NewString(),
			Name:          gofakeit.Company() + " Salon",
			StreetAddress: street,
			City:          "Rochester",
			State:         "NY",
			ZipCode:       zip,
			FullAddress:   fmt.Sprintf("%s, Rochester, NY %s", street, zip),
			Phone:         &phone,
			Website:       &website,
		}
		// Leave some salons unlocated so the enrichment path has work to do.
		if gofakeit.IntRange(0, 4) > 0 {
			salon.Lat = &lat
			salon.Lng = &lng
		}
		if err := s.db.WithContext(ctx).Create(&salon).Error; err != nil {
			return nil, fmt.Errorf("failed to create salon: %w", err)
		}

		for j := 0; j < gofakeit.IntRange(1, 4); j++ {
			instagram := "@" + strings.ToLower(gofakeit.Username())
			stylist := models.Stylist{
				ID:            uuid.NewString(),
				SalonID:       salon.ID,
				Name:          gofakeit.Name(),
				Instagram:     &instagram,
				Verified:      gofakeit.Bool(),
				CanBookOnline: gofakeit.Bool(),
			}
			if gofakeit.Bool() {
				price := float64(gofakeit.IntRange(60, 250))
				stylist.CurlyCutPrice = &price
			}
			for _, cert := range certs {
				if gofakeit.IntRange(0, 2) == 0 {
					stylist.Certifications = append(stylist.Certifications, cert)
				}
			}
			if err := s.db.WithContext(ctx).Create(&stylist).Error; err != nil {
				return nil, fmt.Errorf("failed to create stylist: %w", err)
			}
			stylists = append(stylists, stylist)
		}
	}

	logger.Log.Info("Seeded salons", zap.Int("salons", count), zap.Int("stylists", len(stylists)))
	return stylists, nil
}

// seedForum creates topics, some naming a stylist, each with a short thread
func (s *Seeder) seedForum(ctx context.Context, stylists []models.Stylist, count int) error {
	for i := 0; i < count; i++ {
		author := gofakeit.Name()
		content := gofakeit.HipsterSentence()
		mentioned := models.StringArray{}
		if len(stylists) > 0 && gofakeit.Bool() {
			st := stylists[gofakeit.IntRange(0, len(stylists)-1)]
			content = fmt.Sprintf("Just had a cut with %s. %s", st.Name, content)
			mentioned = append(mentioned, st.ID)
		}

		topic := &models.Topic{
			Title:               gofakeit.HipsterSentence(),
			Content:             content,
			AuthorName:          &author,
			Tags:                models.StringArray{forumTags[gofakeit.IntRange(0, len(forumTags)-1)]},
			MentionedStylistIDs: mentioned,
		}
		if err := s.forum.CreateTopic(ctx, topic); err != nil {
			return err
		}

		for j := 0; j < gofakeit.IntRange(0, 4); j++ {
			reply := &models.Reply{TopicID: topic.ID, Content: gofakeit.HipsterSentence()}
			if err := s.forum.CreateReply(ctx, reply); err != nil {
				return err
			}
			if gofakeit.Bool() {
				child := &models.Reply{TopicID: topic.ID, ParentReplyID: &reply.ID, Content: gofakeit.HipsterSentence()}
				if err := s.forum.CreateReply(ctx, child); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Seeder) seedBlogPosts(ctx context.Context, count int) error {
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		title := gofakeit.HipsterSentence()
		post := models.BlogPost{
			Slug:        fmt.Sprintf("%s-%d", strings.ToLower(gofakeit.Word()), i+1),
			Title:       title,
			Excerpt:     gofakeit.HipsterSentence(),
			Content:     strings.Join([]string{gofakeit.HipsterSentence(), gofakeit.HipsterSentence(), gofakeit.HipsterSentence()}, " "),
			Author:      gofakeit.Name(),
			Tags:        models.StringArray{forumTags[gofakeit.IntRange(0, len(forumTags)-1)]},
			Featured:    i == 0,
			PublishedAt: gofakeit.DateRange(now.AddDate(0, -6, 0), now),
		}
		if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
			return fmt.Errorf("failed to create blog post: %w", err)
		}
	}
	return nil
}
