package models

import (
	"errors"
	"strings"
)

var (
	ErrQuestionIsEmpty    = errors.New("question is empty")
	ErrNotEnoughOptions   = errors.New("the number of options should be at least 2")
	ErrOptionsNotUnique   = errors.New("options must be unique")
	ErrOptionIsEmpty      = errors.New("option is empty")
	ErrOptionNotFound     = errors.New("option is not found")
	ErrInvalidOptionIndex = errors.New("invalid option index")
	ErrAlreadyVoted       = errors.New("your vote is already written")
	ErrPollNotFound       = errors.New("poll is not found")
	ErrUserNotFound       = errors.New("user is not found")
	ErrUserAlreadyExists  = errors.New("username is already taken")
	ErrUsernameIsEmpty    = errors.New("username is empty")
	ErrCreatorNotFound    = errors.New("creator does not exist")
	ErrNotPollCreator     = errors.New("only the creator can delete the poll")
)

// Poll is a multiple-choice poll. Votes maps a voter's username to the
// zero-based index of the option they chose; it is append-only, one entry
// per voter, and entries are never changed short of deleting the poll.
type Poll struct {
	ID       string         `json:"id"`
	Question string         `json:"question"`
	Options  []string       `json:"options"`
	Creator  string         `json:"creator"`
	Votes    map[string]int `json:"votes"`
}

// NewPoll validates the raw question and options and returns a poll with an
// empty vote ledger and no ID yet. Question and options are trimmed before
// validation. Option uniqueness is case-sensitive; the first violated rule
// decides the error.
func NewPoll(question string, options []string, creator string) (*Poll, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionIsEmpty
	}
	if len(options) < 2 {
		return nil, ErrNotEnoughOptions
	}
	trimmed := make([]string, len(options))
	seen := make(map[string]struct{}, len(options))
	for i, option := range options {
		option = strings.TrimSpace(option)
		if _, ok := seen[option]; ok {
			return nil, ErrOptionsNotUnique
		}
		seen[option] = struct{}{}
		trimmed[i] = option
	}
	for _, option := range trimmed {
		if option == "" {
			return nil, ErrOptionIsEmpty
		}
	}
	return &Poll{
		Question: question,
		Options:  trimmed,
		Creator:  creator,
		Votes:    make(map[string]int),
	}, nil
}

// RecordVote appends a vote to the ledger. The index must address an existing
// option and the username must not have voted before; an existing entry is
// never overwritten.
func (p *Poll) RecordVote(username string, option int) error {
	if option < 0 || option >= len(p.Options) {
		return ErrInvalidOptionIndex
	}
	if _, ok := p.Votes[username]; ok {
		return ErrAlreadyVoted
	}
	if p.Votes == nil {
		p.Votes = make(map[string]int)
	}
	p.Votes[username] = option
	return nil
}

// VoteByOption resolves the option by exact value match, the same
// case-sensitive comparison used for option uniqueness, and records the vote
// through the ledger.
func (p *Poll) VoteByOption(username, option string) error {
	option = strings.TrimSpace(option)
	for i, o := range p.Options {
		if o == option {
			return p.RecordVote(username, i)
		}
	}
	return ErrOptionNotFound
}

type OptionResult struct {
	Option string `json:"option"`
	Votes  int    `json:"votes"`
}

type PollResult struct {
	Question   string         `json:"question"`
	TotalVotes int            `json:"total_votes"`
	Results    []OptionResult `json:"results"`
}

// Results tallies the ledger per option, preserving the original option order.
func (p *Poll) Results() PollResult {
	results := make([]OptionResult, len(p.Options))
	for i, option := range p.Options {
		results[i] = OptionResult{Option: option}
	}
	for _, idx := range p.Votes {
		if idx >= 0 && idx < len(results) {
			results[idx].Votes++
		}
	}
	return PollResult{
		Question:   p.Question,
		TotalVotes: len(p.Votes),
		Results:    results,
	}
}
