package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/dailyjournal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dailyjournal/internal/common"
)

const tokenKey = "auth_token"

// MetadataTokenStore keeps the token in the local metadata table.
type MetadataTokenStore struct {
	repo metadata.Repository
}

func NewMetadataTokenStore(repo metadata.Repository) *MetadataTokenStore {
	return &MetadataTokenStore{repo: repo}
}

func (s *MetadataTokenStore) Load(ctx context.Context) (string, error) {
	v, err := s.repo.Get(ctx, tokenKey)
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (s *MetadataTokenStore) Save(ctx context.Context, token string) error {
	return s.repo.Set(ctx, tokenKey, []byte(token))
}

func (s *MetadataTokenStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, tokenKey)
}
