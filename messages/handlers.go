package messages

import (
	"flockr/apierr"
	"flockr/types"

	"github.com/gin-gonic/gin"
)

type messageRequest struct {
	Token     string        `json:"token"`
	ChannelID types.FlexInt `json:"channel_id"`
	MessageID types.FlexInt `json:"message_id"`
	ReactID   types.FlexInt `json:"react_id"`
	Message   string        `json:"message"`
	TimeSent  types.FlexInt `json:"time_sent"`
}

func bindMessage(c *gin.Context) (messageRequest, bool) {
	var json messageRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return json, false
	}
	return json, true
}

func (s *Service) HandleSend(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	id, err := s.Send(c.Request.Context(), json.Token, int(json.ChannelID), json.Message)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"message_id": id})
}

func (s *Service) HandleSendLater(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	id, err := s.SendLater(json.Token, int(json.ChannelID), json.Message, int64(json.TimeSent))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"message_id": id})
}

func (s *Service) HandleEdit(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	if err := s.Edit(json.Token, int(json.MessageID), json.Message); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleRemove(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	if err := s.Remove(json.Token, int(json.MessageID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleReact(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	if err := s.React(json.Token, int(json.MessageID), int(json.ReactID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleUnreact(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	if err := s.Unreact(json.Token, int(json.MessageID), int(json.ReactID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandlePin(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	if err := s.Pin(json.Token, int(json.MessageID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleUnpin(c *gin.Context) {
	json, ok := bindMessage(c)
	if !ok {
		return
	}
	if err := s.Unpin(json.Token, int(json.MessageID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleSearch(c *gin.Context) {
	found, err := s.Search(c.Query("token"), c.Query("query_str"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"messages": found})
}
