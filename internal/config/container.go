package config

import (
	"context"
	"fmt"
	"net/http"

	"book-sanctuary/internal/domain"
	"book-sanctuary/internal/infra/gcp"
	"book-sanctuary/internal/infra/mongodb"
	"book-sanctuary/internal/infra/storage"
	"book-sanctuary/internal/infra/supabase"
	"book-sanctuary/internal/reader"
	"book-sanctuary/internal/render"
	"book-sanctuary/internal/repository"
	"book-sanctuary/internal/service"
	"book-sanctuary/pkg/logger"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
)

// Container holds all application dependencies
type Container struct {
	Config *AppConfig
	Logger domain.Logger

	SupabaseClient domain.SupabaseClient
	ObjectStore    domain.ObjectStore

	DocumentRepository  domain.DocumentRepository
	UserRepository      domain.UserRepository
	BookmarkRepository  domain.BookmarkRepository
	HighlightRepository domain.HighlightRepository
	ChapterRepository   domain.ChapterRepository

	AuthService       *service.AuthService
	DocumentService   *service.DocumentService
	PreferenceService *service.PreferenceService
	BookmarkService   *service.BookmarkService
	HighlightService  *service.HighlightService
	ChapterService    *service.ChapterService
	PageService       *service.PageService
	ReaderManager     *reader.Manager

	closers []func() error
}

// NewContainer creates a new dependency injection container. Backends are
// selected with DB_BACKEND, STORAGE_BACKEND and AUTH_PROVIDER.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config: cfg,
		Logger: logger.NewLogger(cfg.GetLogLevel(), cfg.Environment),
	}

	if err := c.initRepositories(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initObjectStore(ctx); err != nil {
		c.Close()
		return nil, err
	}
	identity, err := c.identityProvider()
	if err != nil {
		c.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.GetFetchTimeout()}
	fetcher := service.NewFetcher(httpClient, c.ObjectStore, cfg.GetMaxFileSize(), c.Logger)
	decoder := render.NewFitzDecoder()

	c.AuthService = service.NewAuthService(
		c.UserRepository,
		identity,
		service.NewSessionTokens(cfg.JWTSecret, cfg.SessionTTL),
		cfg.AdminEmail,
		c.Logger,
	)
	c.DocumentService = service.NewDocumentService(
		c.DocumentRepository,
		c.ObjectStore,
		fetcher,
		service.NewPDFCPUInspector(),
		cfg.GetMaxFileSize(),
		cfg.GetMaxCoverSize(),
		c.Logger,
	)
	c.PreferenceService = service.NewPreferenceService(c.UserRepository, c.Logger)
	c.BookmarkService = service.NewBookmarkService(c.BookmarkRepository, c.Logger)
	c.HighlightService = service.NewHighlightService(c.HighlightRepository, c.Logger)
	c.ChapterService = service.NewChapterService(c.ChapterRepository, c.Logger)
	c.PageService = service.NewPageService(c.DocumentService, decoder, cfg.GetReaderMaxWidth(), c.Logger)
	c.ReaderManager = reader.NewManager(reader.ManagerConfig{
		Documents:   c.DocumentService,
		Bookmarks:   c.BookmarkService,
		Decoder:     decoder,
		Logger:      c.Logger,
		MaxWidth:    cfg.GetReaderMaxWidth(),
		IdleTimeout: cfg.GetReaderIdleTimeout(),
	})

	c.Logger.Info("Container initialized",
		"db_backend", cfg.DBBackend,
		"storage_backend", cfg.StorageBackend,
		"auth_provider", cfg.AuthProvider,
	)
	return c, nil
}

func (c *Container) initRepositories(ctx context.Context) error {
	cfg := c.Config
	switch cfg.DBBackend {
	case "firestore":
		client, err := gcp.NewFirestoreClient(ctx, cfg.GCPProjectID)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, client.Close)
		c.useFirestore(client)
	case "supabase":
		client, err := c.supabase()
		if err != nil {
			return err
		}
		c.DocumentRepository = repository.NewSupabaseDocumentRepository(client, c.Logger)
		c.UserRepository = repository.NewSupabaseUserRepository(client, c.Logger)
		c.BookmarkRepository = repository.NewSupabaseBookmarkRepository(client, c.Logger)
		c.HighlightRepository = repository.NewSupabaseHighlightRepository(client, c.Logger)
		c.ChapterRepository = repository.NewSupabaseChapterRepository(client, c.Logger)
	case "mongo":
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		c.closers = append(c.closers, func() error { return db.Disconnect(context.Background()) })
		c.DocumentRepository = repository.NewMongoDocumentRepository(db)
		c.UserRepository = repository.NewMongoUserRepository(db)
		c.BookmarkRepository = repository.NewMongoBookmarkRepository(db)
		c.HighlightRepository = repository.NewMongoHighlightRepository(db)
		c.ChapterRepository = repository.NewMongoChapterRepository(db)
	default:
		return fmt.Errorf("unknown DB_BACKEND %q", cfg.DBBackend)
	}
	return nil
}

func (c *Container) useFirestore(client *firestore.Client) {
	c.DocumentRepository = repository.NewFirestoreDocumentRepository(client, c.Config.BooksCollection, c.Logger)
	c.UserRepository = repository.NewFirestoreUserRepository(client, c.Logger)
	c.BookmarkRepository = repository.NewFirestoreBookmarkRepository(client, c.Logger)
	c.HighlightRepository = repository.NewFirestoreHighlightRepository(client, c.Logger)
	c.ChapterRepository = repository.NewFirestoreChapterRepository(client, c.Logger)
}

func (c *Container) initObjectStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.StorageBackend {
	case "gcs":
		client, err := gcp.NewStorageClient(ctx)
		if err != nil {
			return err
		}
		c.closers = append(c.closers, client.Close)
		return c.useGCS(client)
	case "s3":
		store, err := storage.NewS3Store(ctx, cfg.S3Bucket, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretKey, c.Logger)
		if err != nil {
			return err
		}
		c.ObjectStore = store
	case "supabase":
		store, err := storage.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket,
			&http.Client{Timeout: cfg.GetFetchTimeout()})
		if err != nil {
			return err
		}
		c.ObjectStore = store
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	return nil
}

func (c *Container) useGCS(client *gcs.Client) error {
	store, err := storage.NewGCSStore(client, c.Config.GCSBucket, c.Logger)
	if err != nil {
		return err
	}
	c.ObjectStore = store
	return nil
}

func (c *Container) identityProvider() (domain.IdentityProvider, error) {
	switch c.Config.AuthProvider {
	case "google":
		if c.Config.GoogleClientID == "" {
			return nil, fmt.Errorf("GOOGLE_CLIENT_ID is required for the google auth provider")
		}
		return service.NewGoogleIdentityProvider(c.Config.GoogleClientID), nil
	case "supabase":
		client, err := c.supabase()
		if err != nil {
			return nil, err
		}
		return service.NewSupabaseIdentityProvider(client, c.Logger), nil
	}
	return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", c.Config.AuthProvider)
}

// supabase lazily initializes the shared Supabase client.
func (c *Container) supabase() (domain.SupabaseClient, error) {
	if c.SupabaseClient != nil {
		return c.SupabaseClient, nil
	}
	client := supabase.NewClient(c.Config.SupabaseURL, c.Config.SupabaseKey, c.Logger)
	if err := client.Initialize(); err != nil {
		return nil, err
	}
	c.SupabaseClient = client
	return client, nil
}

// Close releases backend connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Error("Failed to close backend client", err)
		}
	}
	c.closers = nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}
