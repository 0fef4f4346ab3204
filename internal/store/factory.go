package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nurpe/contract-planner/internal/config"
	"github.com/nurpe/contract-planner/internal/db"
)

// Open builds the store selected by STORE_DRIVER.
func Open(cfg *config.Config, log zerolog.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverSQLite:
		s, err := NewSQLiteStore(cfg.Store.Path, cfg.Store.Key)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Str("path", cfg.Store.Path).Msg("document store opened")
		return s, nil
	case config.StoreDriverPostgres:
		database, err := db.New(cfg, log)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", cfg.Store.Driver).Msg("document store opened")
		return NewPostgresStore(database, cfg.Store.Key), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
