package channels

import (
	"flockr/apierr"
	"flockr/types"

	"github.com/gin-gonic/gin"
)

type memberRequest struct {
	Token     string        `json:"token"`
	ChannelID types.FlexInt `json:"channel_id"`
	UserID    types.FlexInt `json:"u_id"`
}

func bindMember(c *gin.Context) (memberRequest, bool) {
	var json memberRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return json, false
	}
	return json, true
}

func (s *Service) HandleCreate(c *gin.Context) {
	var json struct {
		Token    string `json:"token"`
		Name     string `json:"name"`
		IsPublic bool   `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	id, err := s.Create(json.Token, json.Name, json.IsPublic)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"channel_id": id})
}

func (s *Service) HandleList(c *gin.Context) {
	list, err := s.List(c.Query("token"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"channels": list})
}

func (s *Service) HandleListAll(c *gin.Context) {
	list, err := s.ListAll(c.Query("token"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"channels": list})
}

func (s *Service) HandleDetails(c *gin.Context) {
	details, err := s.Details(c.Query("token"), types.ParseID(c.Query("channel_id")))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, details)
}

func (s *Service) HandleMessages(c *gin.Context) {
	page, err := s.Messages(c.Query("token"), types.ParseID(c.Query("channel_id")), types.ParseID(c.Query("start")))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, page)
}

func (s *Service) HandleInvite(c *gin.Context) {
	json, ok := bindMember(c)
	if !ok {
		return
	}
	if err := s.Invite(json.Token, int(json.ChannelID), int(json.UserID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleJoin(c *gin.Context) {
	json, ok := bindMember(c)
	if !ok {
		return
	}
	if err := s.Join(json.Token, int(json.ChannelID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleLeave(c *gin.Context) {
	json, ok := bindMember(c)
	if !ok {
		return
	}
	if err := s.Leave(json.Token, int(json.ChannelID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleAddOwner(c *gin.Context) {
	json, ok := bindMember(c)
	if !ok {
		return
	}
	if err := s.AddOwner(json.Token, int(json.ChannelID), int(json.UserID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleRemoveOwner(c *gin.Context) {
	json, ok := bindMember(c)
	if !ok {
		return
	}
	if err := s.RemoveOwner(json.Token, int(json.ChannelID), int(json.UserID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}
