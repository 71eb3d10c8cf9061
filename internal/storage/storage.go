// Package storage owns the canonical on-disk state: a single JSON document
// holding every user and every poll. All mutations are whole-document
// read-modify-write cycles serialized behind one write lock; read-only
// operations share a read lock and always observe a fully written document.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"pollroom/internal/models"
)

// Document is the persisted shape: every user keyed by username and every
// poll keyed by id. Each poll's vote ledger is stored as a flat JSON record
// (username -> option index).
type Document struct {
	Users map[string]models.User `json:"users"`
	Polls map[string]models.Poll `json:"polls"`
}

func emptyDocument() Document {
	return Document{
		Users: make(map[string]models.User),
		Polls: make(map[string]models.Poll),
	}
}

// PollPatch is a partial poll update. Nil fields keep the stored value, so
// the vote ledger survives any patch that does not replace it.
type PollPatch struct {
	Question *string
	Options  []string
	Creator  *string
	Votes    map[string]int
}

type Store struct {
	path string
	mu   sync.RWMutex
	l    *zap.Logger
}

func New(path string, l *zap.Logger) *Store {
	return &Store{path: path, l: l}
}

// ReadAll loads the current document. A missing or unparsable file yields an
// empty document so first use needs no setup step.
func (s *Store) ReadAll() (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readLocked()
}

// WriteAll replaces the persisted document with doc. An I/O failure
// propagates to the caller and is never retried.
func (s *Store) WriteAll(doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(doc)
}

func (s *Store) readLocked() (Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return emptyDocument(), nil
	}
	if err != nil {
		return Document{}, fmt.Errorf("storage: failed to read document: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.l.Warn("document is unparsable, starting from an empty one",
			zap.String("path", s.path),
			zap.Error(err))
		return emptyDocument(), nil
	}
	if doc.Users == nil {
		doc.Users = make(map[string]models.User)
	}
	if doc.Polls == nil {
		doc.Polls = make(map[string]models.Poll)
	}
	for id, poll := range doc.Polls {
		if poll.Votes == nil {
			poll.Votes = make(map[string]int)
			doc.Polls[id] = poll
		}
	}
	return doc, nil
}

// writeLocked persists the whole document. The bytes go to a temp file in the
// same directory and are renamed into place, so a concurrent reader never
// sees a half-written file.
func (s *Store) writeLocked(doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: failed to marshal document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("storage: failed to create temp file: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: failed to write document: %w", err)
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: failed to close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: failed to replace document: %w", err)
	}
	return nil
}

func (s *Store) FindUser(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.readLocked()
	if err != nil {
		return models.User{}, err
	}
	user, ok := doc.Users[username]
	if !ok {
		return models.User{}, models.ErrUserNotFound
	}
	return user, nil
}

// CreateUser stores a new user. The store is the source of truth for
// username uniqueness, so the duplicate check lives here even though the
// registry checks too.
func (s *Store) CreateUser(username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.readLocked()
	if err != nil {
		return models.User{}, err
	}
	if _, ok := doc.Users[username]; ok {
		return models.User{}, models.ErrUserAlreadyExists
	}
	user := models.User{Username: username}
	doc.Users[username] = user
	if err := s.writeLocked(doc); err != nil {
		return models.User{}, err
	}
	s.l.Debug("user created", zap.String("username", username))
	return user, nil
}

func (s *Store) FindPoll(id string) (*models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	poll, ok := doc.Polls[id]
	if !ok {
		return nil, models.ErrPollNotFound
	}
	return &poll, nil
}

// CreatePoll persists a new poll, always starting it with an empty ledger.
func (s *Store) CreatePoll(poll *models.Poll) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	stored := *poll
	stored.Votes = make(map[string]int)
	doc.Polls[stored.ID] = stored
	if err := s.writeLocked(doc); err != nil {
		return nil, err
	}
	s.l.Debug("poll created",
		zap.String("poll_id", stored.ID),
		zap.String("creator", stored.Creator))
	return &stored, nil
}

// UpdatePoll merges the patch into the stored poll and persists the result.
func (s *Store) UpdatePoll(id string, patch PollPatch) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	poll, ok := doc.Polls[id]
	if !ok {
		return nil, models.ErrPollNotFound
	}
	if patch.Question != nil {
		poll.Question = *patch.Question
	}
	if patch.Options != nil {
		poll.Options = patch.Options
	}
	if patch.Creator != nil {
		poll.Creator = *patch.Creator
	}
	if patch.Votes != nil {
		poll.Votes = patch.Votes
	}
	doc.Polls[id] = poll
	if err := s.writeLocked(doc); err != nil {
		return nil, err
	}
	s.l.Debug("poll updated", zap.String("poll_id", id))
	return &poll, nil
}

// DeletePoll removes the poll and reports whether it existed.
func (s *Store) DeletePoll(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.readLocked()
	if err != nil {
		return false, err
	}
	if _, ok := doc.Polls[id]; !ok {
		return false, nil
	}
	delete(doc.Polls, id)
	if err := s.writeLocked(doc); err != nil {
		return false, err
	}
	s.l.Debug("poll deleted", zap.String("poll_id", id))
	return true, nil
}

func (s *Store) AllPolls() ([]models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	polls := make([]models.Poll, 0, len(doc.Polls))
	for _, poll := range doc.Polls {
		polls = append(polls, poll)
	}
	return polls, nil
}

func (s *Store) PollsByCreator(username string) ([]models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	polls := make([]models.Poll, 0)
	for _, poll := range doc.Polls {
		if poll.Creator == username {
			polls = append(polls, poll)
		}
	}
	return polls, nil
}

func (s *Store) PollsVotedInBy(username string) ([]models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := s.readLocked()
	if err != nil {
		return nil, err
	}
	polls := make([]models.Poll, 0)
	for _, poll := range doc.Polls {
		if _, ok := poll.Votes[username]; ok {
			polls = append(polls, poll)
		}
	}
	return polls, nil
}

// Clear resets the document to empty. Test isolation only.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(emptyDocument())
}
