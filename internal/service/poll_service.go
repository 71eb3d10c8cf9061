package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pollroom/internal/models"
	"pollroom/internal/registry"
	"pollroom/internal/storage"
)

// PollService orchestrates the registry, the store and the poll entity to
// implement the create/vote/delete/query use cases.
type PollService struct {
	store    *storage.Store
	registry *registry.Registry

	// mu serializes the vote read-modify-write so two concurrent votes on
	// one poll cannot both pass the already-voted check.
	mu sync.Mutex
	l  *zap.Logger
}

func New(store *storage.Store, reg *registry.Registry, l *zap.Logger) *PollService {
	return &PollService{
		store:    store,
		registry: reg,
		l:        l,
	}
}

// CreatePoll validates the poll shape, requires the creator to exist and
// persists the new poll under a fresh UUID.
func (s *PollService) CreatePoll(question string, options []string, creator string) (*models.Poll, error) {
	creator = strings.TrimSpace(creator)
	poll, err := models.NewPoll(question, options, creator)
	if err != nil {
		return nil, err
	}
	if _, err := s.registry.Lookup(creator); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrCreatorNotFound
		}
		s.l.Error("failed to look up creator", zap.Error(err))
		return nil, fmt.Errorf("service: failed to look up creator: %w", err)
	}
	poll.ID = uuid.New().String()

	created, err := s.store.CreatePoll(poll)
	if err != nil {
		s.l.Error("failed to create poll", zap.Error(err))
		return nil, fmt.Errorf("service: failed to create poll: %w", err)
	}
	s.l.Info("poll created",
		zap.String("poll_id", created.ID),
		zap.String("creator", created.Creator))
	return created, nil
}

// Vote records username's vote for the given option index and returns the
// updated poll. A recorded vote is permanent: a second attempt by the same
// user fails and leaves the first entry untouched.
func (s *PollService) Vote(pollID string, optionIndex int, username string) (*models.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, err := s.store.FindPoll(pollID)
	if err != nil {
		if errors.Is(err, models.ErrPollNotFound) {
			return nil, err
		}
		s.l.Error("failed to find poll", zap.Error(err))
		return nil, fmt.Errorf("service: failed to find poll: %w", err)
	}
	user, err := s.registry.Lookup(username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
		s.l.Error("failed to look up voter", zap.Error(err))
		return nil, fmt.Errorf("service: failed to look up voter: %w", err)
	}
	if err := poll.RecordVote(user.Username, optionIndex); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdatePoll(pollID, storage.PollPatch{Votes: poll.Votes})
	if err != nil {
		s.l.Error("failed to persist vote", zap.Error(err))
		return nil, fmt.Errorf("service: failed to persist vote: %w", err)
	}
	s.l.Info("vote recorded",
		zap.String("poll_id", pollID),
		zap.String("username", user.Username),
		zap.Int("option_index", optionIndex))
	return updated, nil
}

// DeletePoll removes the poll if the requesting user is its creator.
func (s *PollService) DeletePoll(pollID, username string) error {
	poll, err := s.store.FindPoll(pollID)
	if err != nil {
		if errors.Is(err, models.ErrPollNotFound) {
			return err
		}
		s.l.Error("failed to find poll", zap.Error(err))
		return fmt.Errorf("service: failed to find poll: %w", err)
	}
	if poll.Creator != strings.TrimSpace(username) {
		s.l.Warn("unauthorized poll deletion attempt",
			zap.String("poll_id", pollID),
			zap.String("username", username))
		return models.ErrNotPollCreator
	}
	if _, err := s.store.DeletePoll(pollID); err != nil {
		s.l.Error("failed to delete poll", zap.Error(err))
		return fmt.Errorf("service: failed to delete poll: %w", err)
	}
	s.l.Info("poll deleted", zap.String("poll_id", pollID))
	return nil
}

func (s *PollService) GetPollByID(pollID string) (*models.Poll, error) {
	return s.store.FindPoll(pollID)
}

func (s *PollService) GetAllPolls() ([]models.Poll, error) {
	return s.store.AllPolls()
}

// GetPollResults projects the poll's ledger into per-option tallies.
func (s *PollService) GetPollResults(pollID string) (models.PollResult, error) {
	poll, err := s.store.FindPoll(pollID)
	if err != nil {
		return models.PollResult{}, err
	}
	return poll.Results(), nil
}

func (s *PollService) GetPollsByCreator(username string) ([]models.Poll, error) {
	user, err := s.registry.Lookup(username)
	if err != nil {
		return nil, err
	}
	return s.store.PollsByCreator(user.Username)
}

func (s *PollService) GetPollsVotedInByUser(username string) ([]models.Poll, error) {
	user, err := s.registry.Lookup(username)
	if err != nil {
		return nil, err
	}
	return s.store.PollsVotedInBy(user.Username)
}
