package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *PollHandler) {
	r.POST("/users", h.RegisterUser)
	r.GET("/users/:username/polls", h.GetPollsByCreator)
	r.GET("/users/:username/votes", h.GetPollsVotedInByUser)

	r.POST("/polls", h.CreatePoll)
	r.GET("/polls", h.GetAllPolls)
	r.GET("/polls/:id", h.GetPollByID)
	r.DELETE("/polls/:id", h.DeletePoll)
	r.POST("/polls/:id/vote", h.Vote)
	r.GET("/polls/:id/results", h.GetPollResults)
}
