// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package prefs persists [models.SyncPreferences] as a TOML file and
// publishes every change, whether made through [Store.Update] or by editing
// the file while the agent runs.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/MKhiriev/go-resto-sync/internal/logger"
	"github.com/MKhiriev/go-resto-sync/internal/utils"
	"github.com/MKhiriev/go-resto-sync/models"
)

type Store struct {
	path string

	mu      sync.RWMutex
	current models.SyncPreferences

	updates *utils.Broadcaster[models.SyncPreferences]
	logger  *logger.Logger
}

// Open loads the preferences at path. A missing file is created with
// [models.DefaultSyncPreferences]; keys absent from an existing file keep
// their default values.
func Open(path string, logger *logger.Logger) (*Store, error) {
	s := &Store{
		path:    path,
		updates: utils.NewBroadcaster[models.SyncPreferences](),
		logger:  logger.WithComponent("prefs"),
	}

	loaded, err := s.load()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		loaded = models.DefaultSyncPreferences()
		if err = s.write(loaded); err != nil {
			return nil, err
		}
		s.logger.Info().Str("path", path).Msg("preferences file created with defaults")
	case err != nil:
		return nil, err
	}

	s.current = loaded
	return s, nil
}

// Current returns a copy of the active preferences.
func (s *Store) Current() models.SyncPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe returns a channel receiving every changed preferences value.
func (s *Store) Subscribe() (<-chan models.SyncPreferences, func()) {
	return s.updates.Subscribe()
}

// Update applies fn to a copy of the current preferences, persists the
// result and then publishes it. Nothing changes when validation or the write
// fails.
func (s *Store) Update(fn func(p *models.SyncPreferences)) (models.SyncPreferences, error) {
	s.mu.Lock()
	next := s.current
	fn(&next)
	if err := validate(next); err != nil {
		s.mu.Unlock()
		return s.Current(), err
	}
	if err := s.write(next); err != nil {
		s.mu.Unlock()
		return s.Current(), err
	}
	changed := next != s.current
	s.current = next
	s.mu.Unlock()

	if changed {
		s.updates.Publish(next)
	}
	return next, nil
}

// Watch reloads the file whenever it changes on disk until ctx is done.
// The parent directory is watched because editors and [Store.Update] replace
// the file by rename.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create preferences watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch preferences dir: %w", err)
	}

	name := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			s.updates.Close()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != name || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.reload()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().Err(werr).Str("func", "Store.Watch").Msg("preferences watcher error")
		}
	}
}

func (s *Store) reload() {
	loaded, err := s.load()
	if err != nil {
		s.logger.Warn().Err(err).Str("func", "Store.reload").Msg("keeping previous preferences")
		return
	}

	s.mu.Lock()
	if loaded == s.current {
		s.mu.Unlock()
		return
	}
	s.current = loaded
	s.mu.Unlock()

	s.logger.Info().Msg("preferences reloaded from disk")
	s.updates.Publish(loaded)
}

func (s *Store) load() (models.SyncPreferences, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.SyncPreferences{}, err
		}
		return models.SyncPreferences{}, fmt.Errorf("%w: %w", ErrReadingPreferences, err)
	}

	p := models.DefaultSyncPreferences()
	if err = toml.Unmarshal(raw, &p); err != nil {
		return models.SyncPreferences{}, fmt.Errorf("%w: %w", ErrInvalidPreferences, err)
	}
	if err = validate(p); err != nil {
		return models.SyncPreferences{}, err
	}
	return p, nil
}

func (s *Store) write(p models.SyncPreferences) error {
	raw, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingPreferences, err)
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingPreferences, err)
	}

	tmp, err := os.CreateTemp(dir, ".sync-prefs-*.toml")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingPreferences, err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(raw); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingPreferences, err)
	}

	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrWritingPreferences, err)
	}
	return nil
}

func validate(p models.SyncPreferences) error {
	if p.SyncIntervalMinutes < 1 {
		return fmt.Errorf("%w: sync_interval_minutes must be at least 1, got %d", ErrInvalidPreferences, p.SyncIntervalMinutes)
	}
	return nil
}
