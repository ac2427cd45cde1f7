package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"pr-risk-analyzer/internal/entities"
)

// readIndex loads an index member list. A missing index is an empty
// list, not an error.
func (s *Store) readIndex(ctx context.Context, key string) ([]string, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, entities.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", key, err)
	}

	var members []string
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", key, err)
	}
	return members, nil
}

func (s *Store) writeIndex(ctx context.Context, key string, members []string) error {
	raw, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("encode index %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store index %s: %w", key, err)
	}
	return nil
}

// addToIndex appends member if absent. Re-adding is a no-op so event
// redelivery cannot inflate an index.
func (s *Store) addToIndex(ctx context.Context, key, member string) error {
	members, err := s.readIndex(ctx, key)
	if err != nil {
		return err
	}
	if slices.Contains(members, member) {
		return nil
	}
	return s.writeIndex(ctx, key, append(members, member))
}

// removeFromIndex drops member if present. Removing an absent member
// is a no-op.
func (s *Store) removeFromIndex(ctx context.Context, key, member string) error {
	members, err := s.readIndex(ctx, key)
	if err != nil {
		return err
	}
	i := slices.Index(members, member)
	if i < 0 {
		return nil
	}
	return s.writeIndex(ctx, key, slices.Delete(members, i, i+1))
}

// applyIndexes reconciles the three secondary indexes after a snapshot
// write. The byRepo index only ever grows; membership in the open and
// per-color indexes follows the snapshot's current state. A PR moves
// between color partitions only when its color actually changed.
func (s *Store) applyIndexes(ctx context.Context, prev, cur *entities.StoredPullRequest) error {
	ws, repo := cur.WorkspaceUUID, cur.RepoUUID

	if err := s.addToIndex(ctx, IndexKey(indexByRepo, ws, repo), cur.Key); err != nil {
		return err
	}

	openKey := IndexKey(indexOpen, ws, repo)
	if cur.State == entities.StateOpen {
		if err := s.addToIndex(ctx, openKey, cur.Key); err != nil {
			return err
		}
	} else {
		if err := s.removeFromIndex(ctx, openKey, cur.Key); err != nil {
			return err
		}
	}

	if prev != nil && prev.Risk.Color != "" && prev.Risk.Color != cur.Risk.Color {
		if err := s.removeFromIndex(ctx, IndexKey(indexRisk, ws, repo, string(prev.Risk.Color)), cur.Key); err != nil {
			return err
		}
	}
	if cur.Risk.Color != "" {
		if err := s.addToIndex(ctx, IndexKey(indexRisk, ws, repo, string(cur.Risk.Color)), cur.Key); err != nil {
			return err
		}
	}
	return nil
}
