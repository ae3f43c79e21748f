package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps state as a JSON document at Path. Writes go to a temporary
// file in the same directory and are renamed into place.
type FileStore struct {
	Path string
}

func (f FileStore) Load(context.Context) (State, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, ErrNoState
		}
		return State{}, err
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return s, nil
}

func (f FileStore) Save(_ context.Context, s State) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".entitlement-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op after rename

	if err := json.NewEncoder(tmp).Encode(s); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
