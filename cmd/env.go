package main

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/tract-choropleth/internal/choropleth"
	"github.com/sells-group/tract-choropleth/internal/dataset"
	"github.com/sells-group/tract-choropleth/internal/db"
)

// mapEnv holds the classified map and, when one was opened, the database pool.
type mapEnv struct {
	Map  *choropleth.Map
	Pool *pgxpool.Pool
}

// Close releases the pool.
func (e *mapEnv) Close() {
	if e.Pool != nil {
		e.Pool.Close()
	}
}

// initMap validates the config for mode, loads the dataset and classifies it.
// A pool is opened for the postgres driver or when needPool is set.
func initMap(ctx context.Context, mode string, needPool bool) (*mapEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	env := &mapEnv{}
	needPool = needPool || strings.EqualFold(cfg.Data.Driver, dataset.DriverPostgres)
	if needPool {
		pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		env.Pool = pool
	}

	srcOpts := dataset.Options{Driver: cfg.Data.Driver, Path: cfg.Data.Path, Table: cfg.Data.Table}
	var src dataset.Source
	if env.Pool != nil {
		src, err = dataset.Open(srcOpts, env.Pool)
	} else {
		src, err = dataset.Open(srcOpts, nil)
	}
	if err != nil {
		env.Close()
		return nil, err
	}

	m, err := buildMap(ctx, src, opts)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Map = m
	return env, nil
}

// buildMap loads src and classifies it. A load failure means no map is built.
func buildMap(ctx context.Context, src dataset.Source, opts choropleth.Options) (*choropleth.Map, error) {
	c, err := src.Load(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load dataset")
	}
	zap.L().Info("dataset loaded", zap.Int("features", len(c.Features)))

	m, err := choropleth.Build(c, opts)
	if err != nil {
		return nil, eris.Wrap(err, "build classification")
	}
	return m, nil
}
