package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/dbx"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Archiver stores export documents and issues download links for them.
type Archiver interface {
	Upload(ctx context.Context, owner string, body []byte) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

type ImportResult struct {
	InsertedCount int      `json:"insertedCount"`
	InsertedIDs   []string `json:"insertedIds"`
}

type ArchiveResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// EntryService implements the journal operations. Every method takes the
// caller's account id and never touches entries owned by anyone else.
type EntryService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	focusMode      models.FocusAreaMode
	listPageSize   int
	importMaxItems int
	archive        Archiver
}

// NewEntryService builds the service. archive may be nil, in which case
// ArchiveExport reports common.ErrorNotConfigured.
func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, archive Archiver) (*EntryService, error) {
	mode, err := models.ParseFocusAreaMode(cfg.FocusAreaMode)
	if err != nil {
		return nil, err
	}
	return &EntryService{
		db:             db,
		repomanager:    m,
		focusMode:      mode,
		listPageSize:   cfg.ListPageSize,
		importMaxItems: cfg.ImportMaxItems,
		archive:        archive,
	}, nil
}

func (s *EntryService) vocabulary(ctx context.Context, owner string) (models.Vocabulary, error) {
	if s.focusMode != models.FocusAreaModeAccount {
		return models.VocabularyFor(s.focusMode, nil), nil
	}
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load owner: %w", err)
	}
	return models.VocabularyFor(s.focusMode, account), nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorInvalidID
	}
	return nil
}

func (s *EntryService) Create(ctx context.Context, owner string, in *models.EntryInput) (*models.Entry, error) {
	vocab, err := s.vocabulary(ctx, owner)
	if err != nil {
		return nil, err
	}
	e, err := in.Normalize(vocab)
	if err != nil {
		return nil, err
	}
	e.Owner = owner

	return s.repomanager.Entries(s.db).Create(ctx, e)
}

func (s *EntryService) Get(ctx context.Context, owner, id string) (*models.Entry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return s.repomanager.Entries(s.db).GetForOwner(ctx, owner, id)
}

// Update replaces every mutable field of the entry. The id is checked before
// the body so a malformed id is reported even with an invalid payload.
func (s *EntryService) Update(ctx context.Context, owner, id string, in *models.EntryInput) (*models.Entry, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	vocab, err := s.vocabulary(ctx, owner)
	if err != nil {
		return nil, err
	}
	e, err := in.Normalize(vocab)
	if err != nil {
		return nil, err
	}
	e.ID = id
	e.Owner = owner

	return s.repomanager.Entries(s.db).UpdateForOwner(ctx, e)
}

func (s *EntryService) Delete(ctx context.Context, owner, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return s.repomanager.Entries(s.db).DeleteForOwner(ctx, owner, id)
}

// List returns the newest entries first, at most the configured page size.
func (s *EntryService) List(ctx context.Context, owner string) ([]*models.Entry, error) {
	return s.repomanager.Entries(s.db).ListByOwner(ctx, owner, s.listPageSize)
}

// Export returns every entry of owner in List order.
func (s *EntryService) Export(ctx context.Context, owner string) ([]*models.Entry, error) {
	return s.repomanager.Entries(s.db).ListByOwner(ctx, owner, 0)
}

// Import validates every item and then inserts all of them in one
// transaction, owned by owner. If any item is rejected nothing is written and
// a *common.BulkValidationError lists the problems per item.
func (s *EntryService) Import(ctx context.Context, owner string, items []json.RawMessage) (*ImportResult, error) {
	if len(items) > s.importMaxItems {
		verr := common.NewValidationError()
		verr.Add("entries", fmt.Sprintf("must contain at most %d items", s.importMaxItems))
		return nil, verr
	}

	vocab, err := s.vocabulary(ctx, owner)
	if err != nil {
		return nil, err
	}

	normalized := make([]*models.Entry, 0, len(items))
	var rejected []common.ItemError
	for i, raw := range items {
		var in models.EntryInput
		if err := json.Unmarshal(raw, &in); err != nil {
			rejected = append(rejected, common.ItemError{Index: i, Fields: map[string]string{"item": "must be a JSON object"}})
			continue
		}
		e, err := in.Normalize(vocab)
		if err != nil {
			var verr *common.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			rejected = append(rejected, common.ItemError{Index: i, Fields: verr.Fields})
			continue
		}
		e.Owner = owner
		normalized = append(normalized, e)
	}
	if len(rejected) > 0 {
		return nil, &common.BulkValidationError{Items: rejected}
	}

	result := &ImportResult{InsertedIDs: make([]string, 0, len(normalized))}
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Entries(tx)
		for _, e := range normalized {
			created, err := repo.Create(ctx, e)
			if err != nil {
				return err
			}
			result.InsertedIDs = append(result.InsertedIDs, created.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error importing entries: %w", err)
	}

	result.InsertedCount = len(result.InsertedIDs)
	return result, nil
}

// ArchiveExport uploads the owner's full export to object storage and returns
// the object key and a short-lived download link.
func (s *EntryService) ArchiveExport(ctx context.Context, owner string) (*ArchiveResult, error) {
	if s.archive == nil {
		return nil, common.ErrorNotConfigured
	}

	entries, err := s.Export(ctx, owner)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	key, err := s.archive.Upload(ctx, owner, body)
	if err != nil {
		return nil, err
	}
	url, err := s.archive.PresignGet(ctx, key)
	if err != nil {
		return nil, err
	}
	return &ArchiveResult{Key: key, URL: url}, nil
}
