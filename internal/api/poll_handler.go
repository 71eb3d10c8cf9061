package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pollroom/internal/registry"
	"pollroom/internal/service"
)

type PollHandler struct {
	s   *service.PollService
	reg *registry.Registry
	l   *zap.Logger
}

func New(s *service.PollService, reg *registry.Registry, l *zap.Logger) *PollHandler {
	return &PollHandler{
		s:   s,
		reg: reg,
		l:   l,
	}
}

type registerUserRequest struct {
	Username string `json:"username"`
}

type createPollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Creator  string   `json:"creator"`
}

type voteRequest struct {
	Username string `json:"username"`
	// pointer so a missing or non-integer index is told apart from 0
	OptionIndex *int `json:"option_index"`
}

type deletePollRequest struct {
	Username string `json:"username"`
}

func (h *PollHandler) RegisterUser(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	user, err := h.reg.Register(req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *PollHandler) CreatePoll(c *gin.Context) {
	var req createPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	poll, err := h.s.CreatePoll(req.Question, req.Options, req.Creator)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, poll)
}

func (h *PollHandler) GetAllPolls(c *gin.Context) {
	polls, err := h.s.GetAllPolls()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

func (h *PollHandler) GetPollByID(c *gin.Context) {
	poll, err := h.s.GetPollByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

func (h *PollHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.OptionIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "option_index must be an integer"})
		return
	}
	poll, err := h.s.Vote(c.Param("id"), *req.OptionIndex, req.Username)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(c *gin.Context) {
	var req deletePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.s.DeletePoll(c.Param("id"), req.Username); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *PollHandler) GetPollResults(c *gin.Context) {
	result, err := h.s.GetPollResults(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PollHandler) GetPollsByCreator(c *gin.Context) {
	polls, err := h.s.GetPollsByCreator(c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

func (h *PollHandler) GetPollsVotedInByUser(c *gin.Context) {
	polls, err := h.s.GetPollsVotedInByUser(c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, polls)
}

func (h *PollHandler) respondError(c *gin.Context, err error) {
	status := statusFromErr(err)
	if status == http.StatusInternalServerError {
		h.l.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "something went wrong"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
