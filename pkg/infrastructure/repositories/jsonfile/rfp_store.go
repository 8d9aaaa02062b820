package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vsinha/bidengine/pkg/domain/entities"
	"github.com/vsinha/bidengine/pkg/domain/repositories"
)

// RFPStore keeps the RFP collection in one JSON array file. Every operation
// re-reads the file, and writes go through a temp file and a rename so a
// reader never sees a partial collection.
type RFPStore struct {
	path string
	mu   sync.Mutex
}

var _ repositories.RFPRepository = (*RFPStore)(nil)

// NewRFPStore opens the store at path, creating an empty collection if needed
func NewRFPStore(path string) (*RFPStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &RFPStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat store %s: %w", path, err)
	}
	return s, nil
}

// ReadRFPs decodes either one RFP object or an array of them
func ReadRFPs(r io.Reader) ([]*entities.RFP, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read rfp records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("no rfp records found")
	}

	if data[0] == '[' {
		var rfps []*entities.RFP
		if err := json.Unmarshal(data, &rfps); err != nil {
			return nil, fmt.Errorf("failed to parse rfp array: %w", err)
		}
		return rfps, nil
	}

	var rfp entities.RFP
	if err := json.Unmarshal(data, &rfp); err != nil {
		return nil, fmt.Errorf("failed to parse rfp: %w", err)
	}
	return []*entities.RFP{&rfp}, nil
}

func (s *RFPStore) read() ([]*entities.RFP, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s: %w", s.path, err)
	}
	defer f.Close()

	var rfps []*entities.RFP
	if err := json.NewDecoder(f).Decode(&rfps); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode store %s: %w", s.path, err)
	}
	return rfps, nil
}

func (s *RFPStore) write(rfps []*entities.RFP) error {
	if rfps == nil {
		rfps = []*entities.RFP{}
	}
	data, err := json.MarshalIndent(rfps, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode rfps: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace store %s: %w", s.path, err)
	}
	return nil
}

func indexOf(rfps []*entities.RFP, id string) int {
	for i, rfp := range rfps {
		if rfp.ID == id {
			return i
		}
	}
	return -1
}

// GetRFP reads the file and returns the RFP with the given id
func (s *RFPStore) GetRFP(ctx context.Context, id string) (*entities.RFP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rfps, err := s.read()
	if err != nil {
		return nil, err
	}
	i := indexOf(rfps, id)
	if i < 0 {
		return nil, fmt.Errorf("rfp %s: %w", id, repositories.ErrNotFound)
	}
	return rfps[i], nil
}

// ListRFPs returns every RFP in file order
func (s *RFPStore) ListRFPs(ctx context.Context) ([]*entities.RFP, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// SaveRFP replaces the RFP with the same id or appends it, then rewrites the file
func (s *RFPStore) SaveRFP(ctx context.Context, rfp *entities.RFP) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rfp == nil || rfp.ID == "" {
		return fmt.Errorf("rfp id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rfps, err := s.read()
	if err != nil {
		return err
	}
	if i := indexOf(rfps, rfp.ID); i >= 0 {
		rfps[i] = rfp.Clone()
	} else {
		rfps = append(rfps, rfp.Clone())
	}
	return s.write(rfps)
}

// UpdateRFP applies fn to one RFP and rewrites the file only if fn succeeds
func (s *RFPStore) UpdateRFP(ctx context.Context, id string, fn func(rfp *entities.RFP) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rfps, err := s.read()
	if err != nil {
		return err
	}
	i := indexOf(rfps, id)
	if i < 0 {
		return fmt.Errorf("rfp %s: %w", id, repositories.ErrNotFound)
	}
	if err := fn(rfps[i]); err != nil {
		return err
	}
	if rfps[i].ID != id {
		return fmt.Errorf("rfp id cannot change during update: %s -> %s", id, rfps[i].ID)
	}
	return s.write(rfps)
}

// UpdateAll applies fn to the whole collection and rewrites the file only if fn succeeds
func (s *RFPStore) UpdateAll(ctx context.Context, fn func(rfps []*entities.RFP) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rfps, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(rfps); err != nil {
		return err
	}
	return s.write(rfps)
}
