package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pollroom/internal/models"
	"pollroom/internal/registry"
	"pollroom/internal/storage"
)

type fixture struct {
	store    *storage.Store
	registry *registry.Registry
	service  *PollService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.New(filepath.Join(t.TempDir(), "pollroom.json"), zap.NewNop())
	reg := registry.New(store, zap.NewNop())
	return &fixture{
		store:    store,
		registry: reg,
		service:  New(store, reg, zap.NewNop()),
	}
}

func (f *fixture) register(t *testing.T, username string) {
	t.Helper()
	_, err := f.registry.Register(username)
	require.NoError(t, err)
}

func TestCreatePoll(t *testing.T) {
	t.Run("creates a valid poll", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice")

		poll, err := f.service.CreatePoll("Pick one?", []string{"X", "Y"}, "alice")
		require.NoError(t, err)
		assert.NotEmpty(t, poll.ID)
		assert.Len(t, poll.Options, 2)
		assert.Equal(t, "alice", poll.Creator)
		assert.Empty(t, poll.Votes)
	})

	t.Run("fails if the creator does not exist", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.CreatePoll("Pick one?", []string{"X", "Y"}, "ghost")
		require.ErrorIs(t, err, models.ErrCreatorNotFound)
	})

	t.Run("persists nothing on validation failure", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "alice")

		_, err := f.service.CreatePoll("Pick one?", []string{"X", "X"}, "alice")
		require.ErrorIs(t, err, models.ErrOptionsNotUnique)

		polls, err := f.service.GetAllPolls()
		require.NoError(t, err)
		assert.Empty(t, polls)
	})
}

func TestVote(t *testing.T) {
	setup := func(t *testing.T) (*fixture, string) {
		f := newFixture(t)
		f.register(t, "alice")
		f.register(t, "bob")
		poll, err := f.service.CreatePoll("Pick one?", []string{"X", "Y"}, "alice")
		require.NoError(t, err)
		return f, poll.ID
	}

	t.Run("records a vote", func(t *testing.T) {
		f, pollID := setup(t)
		poll, err := f.service.Vote(pollID, 1, "bob")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"bob": 1}, poll.Votes)
	})

	t.Run("second vote fails and keeps the first", func(t *testing.T) {
		f, pollID := setup(t)
		_, err := f.service.Vote(pollID, 1, "bob")
		require.NoError(t, err)

		_, err = f.service.Vote(pollID, 0, "bob")
		require.ErrorIs(t, err, models.ErrAlreadyVoted)

		poll, err := f.service.GetPollByID(pollID)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"bob": 1}, poll.Votes)
	})

	t.Run("out of range index leaves the ledger unchanged", func(t *testing.T) {
		f, pollID := setup(t)
		_, err := f.service.Vote(pollID, 2, "bob")
		require.ErrorIs(t, err, models.ErrInvalidOptionIndex)
		_, err = f.service.Vote(pollID, -1, "bob")
		require.ErrorIs(t, err, models.ErrInvalidOptionIndex)

		poll, err := f.service.GetPollByID(pollID)
		require.NoError(t, err)
		assert.Empty(t, poll.Votes)
	})

	t.Run("unknown poll fails", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.service.Vote("nope", 0, "bob")
		require.ErrorIs(t, err, models.ErrPollNotFound)
	})

	t.Run("unknown voter fails", func(t *testing.T) {
		f, pollID := setup(t)
		_, err := f.service.Vote(pollID, 0, "ghost")
		require.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestDeletePoll(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")
	poll, err := f.service.CreatePoll("Pick one?", []string{"X", "Y"}, "alice")
	require.NoError(t, err)

	t.Run("non-creator is rejected and the poll survives", func(t *testing.T) {
		err := f.service.DeletePoll(poll.ID, "bob")
		require.ErrorIs(t, err, models.ErrNotPollCreator)

		got, err := f.service.GetPollByID(poll.ID)
		require.NoError(t, err)
		assert.Equal(t, poll.ID, got.ID)
	})

	t.Run("creator deletes and the poll is gone", func(t *testing.T) {
		require.NoError(t, f.service.DeletePoll(poll.ID, "alice"))

		_, err := f.service.GetPollByID(poll.ID)
		require.ErrorIs(t, err, models.ErrPollNotFound)
	})

	t.Run("deleting an unknown poll fails", func(t *testing.T) {
		err := f.service.DeletePoll("nope", "alice")
		require.ErrorIs(t, err, models.ErrPollNotFound)
	})
}

func TestUserPollQueries(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")
	poll, err := f.service.CreatePoll("Pick one?", []string{"X", "Y"}, "alice")
	require.NoError(t, err)
	_, err = f.service.Vote(poll.ID, 0, "bob")
	require.NoError(t, err)

	created, err := f.service.GetPollsByCreator("alice")
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, poll.ID, created[0].ID)

	votedIn, err := f.service.GetPollsVotedInByUser("bob")
	require.NoError(t, err)
	require.Len(t, votedIn, 1)
	assert.Equal(t, poll.ID, votedIn[0].ID)

	_, err = f.service.GetPollsByCreator("ghost")
	require.ErrorIs(t, err, models.ErrUserNotFound)
	_, err = f.service.GetPollsVotedInByUser("ghost")
	require.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestGetPollResults(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")
	poll, err := f.service.CreatePoll("Pick one?", []string{"X", "Y"}, "alice")
	require.NoError(t, err)
	_, err = f.service.Vote(poll.ID, 1, "bob")
	require.NoError(t, err)
	_, err = f.service.Vote(poll.ID, 1, "alice")
	require.NoError(t, err)

	result, err := f.service.GetPollResults(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalVotes)
	assert.Equal(t, []models.OptionResult{
		{Option: "X", Votes: 0},
		{Option: "Y", Votes: 2},
	}, result.Results)

	_, err = f.service.GetPollResults("nope")
	require.ErrorIs(t, err, models.ErrPollNotFound)
}

func TestEndToEndVoteFlow(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")

	poll, err := f.service.CreatePoll("Pick one?", []string{"X", "Y"}, "alice")
	require.NoError(t, err)

	_, err = f.service.Vote(poll.ID, 1, "bob")
	require.NoError(t, err)

	got, err := f.service.GetPollByID(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"bob": 1}, got.Votes)

	_, err = f.service.Vote(poll.ID, 0, "bob")
	require.ErrorIs(t, err, models.ErrAlreadyVoted)

	got, err = f.service.GetPollByID(poll.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"bob": 1}, got.Votes)
}
