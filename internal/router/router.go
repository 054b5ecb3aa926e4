package router

import (
	"context"
	"fmt"
	"time"

	"github.com/baker339/DOGR/internal/engagement"
	"github.com/baker339/DOGR/internal/feed"
	"github.com/baker339/DOGR/internal/graph"
	"github.com/baker339/DOGR/internal/handlers"
	"github.com/baker339/DOGR/internal/imagehost"
	"github.com/baker339/DOGR/internal/leaderboard"
	"github.com/baker339/DOGR/internal/middleware"
	"github.com/baker339/DOGR/internal/models"
	"github.com/baker339/DOGR/internal/repositories"
	"github.com/baker339/DOGR/pkg/config"
	"github.com/baker339/DOGR/pkg/firebase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Deps are the external resources the routes are built on.
type Deps struct {
	Config   *config.Config
	DB       *config.DB
	Firebase *firebase.App // nil in jwt mode without storage
	Logger   *zap.Logger
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) error {
	cfg, db, logger := deps.Config, deps.DB, deps.Logger

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- Initialize Repositories ---
	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	userRepo := repositories.NewMongoUserRepository(mongoDB, cfg.MongoTransactions)
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("post indexes: %w", err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("user indexes: %w", err)
	}

	var (
		tallies leaderboard.TallyStore
		sink    handlers.ErrorSink
	)
	if db.Postgres != nil {
		if err := db.Postgres.WithContext(ctx).AutoMigrate(&models.ConsumptionTally{}, &models.ErrorLog{}); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		logger.Info("PostgreSQL auto-migrations completed")
		tallies = repositories.NewPostgresTallyRepository(db.Postgres)
		sink = repositories.NewPostgresErrorLogRepository(db.Postgres)
	}

	composerOpts := []feed.Option{feed.WithDiscoverySize(cfg.FeedDiscoverySize)}
	if db.Redis != nil {
		composerOpts = append(composerOpts, feed.WithSeenStore(repositories.NewRedisFeedSessionRepository(db.Redis, cfg.FeedSessionTTL)))
	}

	// --- Core services ---
	accessor := graph.NewAccessor(userRepo)
	board := leaderboard.NewService(userRepo, postRepo, tallies, cfg.Location())
	if err := board.Warm(ctx); err != nil {
		logger.Warn("tally seeding failed, retrying on first leaderboard read", zap.Error(err))
	}
	engine := engagement.NewEngine(postRepo, board)
	composer := feed.NewComposer(postRepo, accessor, composerOpts...)

	var uploader *imagehost.Uploader
	if deps.Firebase != nil && deps.Firebase.Bucket != nil {
		uploader = imagehost.NewUploader(imagehost.NewBucketStore(deps.Firebase.Bucket, deps.Firebase.BucketName), "posts")
	}

	verifier, err := tokenVerifier(cfg, deps.Firebase)
	if err != nil {
		return err
	}

	e.HTTPErrorHandler = handlers.NewErrorReporter(sink, logger).Handle

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")
	handlers.NewErrorLogHandler(sink).RegisterErrorLogRoutes(api)

	// --- Protected routes ---
	authed := api.Group("", middleware.Auth(verifier))
	feedHandler := handlers.NewFeedHandler(composer)
	feedHandler.RegisterFeedRoutes(authed)
	handlers.NewPostHandler(postRepo, engine, feedHandler).RegisterPostRoutes(authed)
	handlers.NewLikeHandler(engine).RegisterLikeRoutes(authed)
	handlers.NewCommentHandler(engine).RegisterCommentRoutes(authed)
	handlers.NewFollowHandler(accessor).RegisterFollowRoutes(authed)
	handlers.NewUserHandler(userRepo).RegisterUserRoutes(authed)
	handlers.NewLeaderboardHandler(board).RegisterLeaderboardRoutes(authed)
	handlers.NewImageHandler(uploader).RegisterImageRoutes(authed)

	admin := authed.Group("/admin", middleware.AdminOnly(cfg.AdminUserIDs))
	handlers.NewAdminHandler(accessor, board).RegisterAdminRoutes(admin)

	logger.Info("routes configured",
		zap.String("auth", cfg.AuthMode),
		zap.Bool("tallies", tallies != nil),
		zap.Bool("feedSessions", db.Redis != nil),
		zap.Bool("images", uploader != nil),
	)
	return nil
}

func tokenVerifier(cfg *config.Config, fb *firebase.App) (middleware.TokenVerifier, error) {
	switch cfg.AuthMode {
	case "jwt":
		return middleware.NewJWTVerifier(cfg.JWTSecret)
	case "firebase":
		if fb == nil {
			return nil, fmt.Errorf("AUTH_MODE=firebase requires Firebase credentials")
		}
		return middleware.NewFirebaseVerifier(fb.AuthClient), nil
	}
	return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.AuthMode)
}
