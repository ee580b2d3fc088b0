// Package store persists company analyses in an embedded Badger database
// so results survive restarts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/iwvelando/finance-ratios/internal/analysis"
	"github.com/timshannon/badgerhold/v4"
	"go.uber.org/zap"
)

// record is the persisted form of an analysis.
type record struct {
	CompanyID string `badgerhold:"key"`
	StoredAt  time.Time
	Analysis  analysis.CompanyAnalysis
}

// Store is a badgerhold-backed analysis.Cache.
type Store struct {
	db     *badgerhold.Store
	logger *zap.Logger
}

var _ analysis.Cache = (*Store)(nil)

// Open opens or creates the database in dir. Records are encoded as JSON
// so ratio values keep their finite/unbounded/undefined distinction.
func Open(logger *zap.Logger, dir string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		return nil, errors.New("store directory is required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = dir
	options.ValueDir = dir
	options.Logger = nil
	options.Encoder = json.Marshal
	options.Decoder = json.Unmarshal

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug("analysis store opened",
		zap.String("op", "store.Open"),
		zap.String("path", dir),
	)
	return &Store{db: db, logger: logger}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Get(companyID string) (analysis.CompanyAnalysis, bool, error) {
	var r record
	err := s.db.Get(companyID, &r)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return analysis.CompanyAnalysis{}, false, nil
	}
	if err != nil {
		return analysis.CompanyAnalysis{}, false, fmt.Errorf("failed to get analysis %s: %w", companyID, err)
	}
	return r.Analysis, true, nil
}

func (s *Store) Put(result analysis.CompanyAnalysis) error {
	r := record{
		CompanyID: result.CompanyID,
		StoredAt:  time.Now(),
		Analysis:  result,
	}
	if err := s.db.Upsert(result.CompanyID, &r); err != nil {
		return fmt.Errorf("failed to store analysis %s: %w", result.CompanyID, err)
	}
	s.logger.Debug("analysis stored",
		zap.String("op", "store.Put"),
		zap.String("company", result.CompanyID),
	)
	return nil
}

func (s *Store) List() ([]analysis.CompanyAnalysis, error) {
	var records []record
	if err := s.db.Find(&records, nil); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	results := make([]analysis.CompanyAnalysis, 0, len(records))
	for _, r := range records {
		results = append(results, r.Analysis)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CompanyID < results[j].CompanyID })
	return results, nil
}

func (s *Store) Delete(companyID string) error {
	err := s.db.Delete(companyID, record{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return analysis.ErrNotCached
	}
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", companyID, err)
	}
	return nil
}
