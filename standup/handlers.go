package standup

import (
	"flockr/apierr"
	"flockr/types"

	"github.com/gin-gonic/gin"
)

func (s *Service) HandleStart(c *gin.Context) {
	var json struct {
		Token     string        `json:"token"`
		ChannelID types.FlexInt `json:"channel_id"`
		Length    types.FlexInt `json:"length"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	finish, err := s.Start(json.Token, int(json.ChannelID), int(json.Length))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"time_finish": finish})
}

func (s *Service) HandleActive(c *gin.Context) {
	status, err := s.Active(c.Query("token"), types.ParseID(c.Query("channel_id")))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, status)
}

func (s *Service) HandleSend(c *gin.Context) {
	var json struct {
		Token     string        `json:"token"`
		ChannelID types.FlexInt `json:"channel_id"`
		Message   string        `json:"message"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	if err := s.Send(json.Token, int(json.ChannelID), json.Message); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}
