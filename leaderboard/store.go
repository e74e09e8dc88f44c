/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// Store loads and saves the full set of persisted entries. Implementations
// are not required to be safe for concurrent writers; callers serialize.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// Append loads the current entries, appends the new ones, and saves the
// result.
func Append(ctx context.Context, store Store, entries []Entry) error {
	existing, err := store.Load(ctx)
	if err != nil {
		return err
	}
	return store.Save(ctx, append(existing, entries...))
}

// FileStore persists entries as a JSON array in a local file. A missing
// file reads as an empty board.
type FileStore struct {
	Path string
}

func (fs *FileStore) Load(ctx context.Context) ([]Entry, error) {
	data, err := os.ReadFile(fs.Path)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("unable to read results file %v: %w", fs.Path,
			err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unable to parse results file %v: %w", fs.Path,
			err)
	}

	return entries, nil
}

func (fs *FileStore) Save(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to marshal results: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(fs.Path, data, 0644); err != nil {
		return fmt.Errorf("unable to write results file %v: %w", fs.Path, err)
	}

	return nil
}
