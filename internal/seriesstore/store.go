// Package seriesstore keeps asset series as CSV files in blob storage.
package seriesstore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/newthinker/riskattr/internal/core"
	"github.com/newthinker/riskattr/internal/storage/archive"
	"github.com/newthinker/riskattr/internal/timeseries"
)

// Dir is the storage prefix holding one file per asset
const Dir = "series"

// Path returns the storage path of an asset's series
func Path(id core.AssetID) string {
	return path.Join(Dir, id.String()+".csv")
}

// Store loads and saves series through an archive.Storage
type Store struct {
	storage archive.Storage
	logger  *zap.Logger
}

// New creates a Store
func New(storage archive.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: storage, logger: logger.Named("seriesstore")}
}

// Save writes src as the series of id
func (s *Store) Save(ctx context.Context, id core.AssetID, src timeseries.Source) error {
	data, err := Encode(src)
	if err != nil {
		return fmt.Errorf("encoding asset %s: %w", id, err)
	}
	if err := s.storage.Write(ctx, Path(id), data); err != nil {
		return fmt.Errorf("writing asset %s: %w", id, err)
	}
	return nil
}

// Load reads the series of id
func (s *Store) Load(ctx context.Context, id core.AssetID) (timeseries.Source, error) {
	data, err := s.storage.Read(ctx, Path(id))
	if err != nil {
		return nil, err
	}
	src, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", id, err)
	}
	return src, nil
}

// LoadAll reads the series of every id. Missing series are logged and left
// out of the result so the analysis reports which asset has no data.
func (s *Store) LoadAll(ctx context.Context, ids []core.AssetID) (map[core.AssetID]timeseries.Source, error) {
	out := make(map[core.AssetID]timeseries.Source, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		src, err := s.Load(ctx, id)
		if errors.Is(err, core.ErrSeriesNotFound) {
			s.logger.Warn("series missing", zap.Stringer("asset", id), zap.String("path", Path(id)))
			continue
		}
		if err != nil {
			return nil, err
		}
		s.logger.Debug("series loaded",
			zap.Stringer("asset", id),
			zap.String("kind", string(src.Kind())),
			zap.Int("observations", len(src.Dates())),
		)
		out[id] = src
	}
	return out, nil
}

// List returns the assets with a stored series, ascending
func (s *Store) List(ctx context.Context) ([]core.AssetID, error) {
	paths, err := s.storage.List(ctx, Dir)
	if err != nil {
		return nil, err
	}

	ids := make([]core.AssetID, 0, len(paths))
	for _, p := range paths {
		name, ok := strings.CutSuffix(path.Base(p), ".csv")
		if !ok {
			continue
		}
		id, err := core.ParseAssetID(name)
		if err != nil {
			s.logger.Debug("skipping file", zap.String("path", p))
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
