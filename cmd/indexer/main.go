package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/villagehub/directory-backend/internal/adapters/database"
	"github.com/villagehub/directory-backend/internal/adapters/events"
	"github.com/villagehub/directory-backend/internal/adapters/search"
	"github.com/villagehub/directory-backend/internal/domain/entities"
	"github.com/villagehub/directory-backend/internal/domain/providers"
	"github.com/villagehub/directory-backend/internal/domain/repositories"
	"github.com/villagehub/directory-backend/internal/infrastructure/clients/postgres"
	"github.com/villagehub/directory-backend/internal/infrastructure/clients/redis"
	"github.com/villagehub/directory-backend/internal/infrastructure/clients/typesense"
	"github.com/villagehub/directory-backend/internal/infrastructure/observability"
	"github.com/villagehub/directory-backend/pkg/config"
)

const listBatchSize = 1000

func main() {
	var reset bool
	var intervalFlag string
	var follow bool
	flag.BoolVar(&reset, "reset", false, "delete the existing search collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for full reindexing (e.g. 6h, 30m)")
	flag.BoolVar(&follow, "follow", false, "subscribe to profile change events and index incrementally")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-indexer", cfg.Env)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Str("interval", intervalValue).Err(err).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Typesense client")
	}

	profileRepo := database.NewProfileAdapter(pgClient)
	searchRepo := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Msg("deleting profiles collection before reindex")
		if _, err := tsClient.Client().Collection(search.CollectionName).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	if err := searchRepo.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to init search schema")
	}

	if follow {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Redis client for -follow")
		}
		defer redisClient.Close()

		bus := events.NewRedisEventBus(redisClient)
		defer bus.Close()

		go followUpdates(ctx, bus, profileRepo, searchRepo)
	}

	for {
		if err := indexOnce(ctx, profileRepo, searchRepo); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 && !follow {
			break
		}

		if interval <= 0 {
			// Follow mode with no interval: block until shutdown
			<-ctx.Done()
			log.Info().Msg("indexer shutting down")
			return
		}

		log.Info().Dur("interval", interval).Msg("reindex complete, sleeping until next run")

		select {
		case <-ctx.Done():
			log.Info().Msg("indexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

// indexOnce loads every profile from Postgres and upserts it into the search
// collection.
func indexOnce(ctx context.Context, profileRepo repositories.ProfileRepository, searchRepo repositories.ProfileSearchRepository) error {
	indexed := 0
	for offset := 0; ; offset += listBatchSize {
		profiles, err := profileRepo.List(ctx, repositories.ProfileFilter{Limit: listBatchSize, Offset: offset})
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			break
		}

		for _, p := range profiles {
			if p == nil {
				continue
			}
			if err := searchRepo.Index(ctx, p); err != nil {
				log.Error().Err(err).Str("profile_id", p.ID).Msg("failed to index profile")
				continue
			}
			indexed++
		}

		if len(profiles) < listBatchSize {
			break
		}
	}

	log.Info().Int("indexed", indexed).Msg("indexing complete")
	return nil
}

// followUpdates keeps the search collection in sync with profile change
// events published by the API.
func followUpdates(ctx context.Context, bus providers.EventBus, profileRepo repositories.ProfileRepository, searchRepo repositories.ProfileSearchRepository) {
	updates, err := bus.Subscribe(ctx, providers.EventChannelProfileUpdates)
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to profile updates")
		return
	}

	log.Info().Str("channel", providers.EventChannelProfileUpdates).Msg("following profile updates")

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-updates:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			handleEvent(ctx, event, profileRepo, searchRepo)
		}
	}
}

func handleEvent(ctx context.Context, event *entities.ProfileEvent, profileRepo repositories.ProfileRepository, searchRepo repositories.ProfileSearchRepository) {
	switch event.EventType {
	case entities.ProfileEventTypeDeleted:
		if err := searchRepo.Delete(ctx, event.ProfileID); err != nil {
			log.Error().Err(err).Str("profile_id", event.ProfileID).Msg("failed to remove profile from index")
		}
	default:
		profile, err := profileRepo.GetByID(ctx, event.ProfileID)
		if err != nil {
			log.Error().Err(err).Str("profile_id", event.ProfileID).Msg("failed to load changed profile")
			return
		}
		if err := searchRepo.Index(ctx, profile); err != nil {
			log.Error().Err(err).Str("profile_id", event.ProfileID).Msg("failed to index changed profile")
		}
	}
}
