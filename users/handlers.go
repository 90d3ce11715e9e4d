package users

import (
	"flockr/apierr"
	"flockr/types"

	"github.com/gin-gonic/gin"
)

type profileRequest struct {
	Token     string `json:"token"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
	Email     string `json:"email"`
	HandleStr string `json:"handle_str"`
}

func bindProfile(c *gin.Context) (profileRequest, bool) {
	var json profileRequest
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return json, false
	}
	return json, true
}

func (s *Service) HandleProfile(c *gin.Context) {
	profile, err := s.Profile(c.Query("token"), types.ParseID(c.Query("u_id")))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"user": profile})
}

func (s *Service) HandleAll(c *gin.Context) {
	all, err := s.All(c.Query("token"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"users": all})
}

func (s *Service) HandleSetName(c *gin.Context) {
	json, ok := bindProfile(c)
	if !ok {
		return
	}
	if err := s.SetName(json.Token, json.NameFirst, json.NameLast); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleSetEmail(c *gin.Context) {
	json, ok := bindProfile(c)
	if !ok {
		return
	}
	if err := s.SetEmail(json.Token, json.Email); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleSetHandle(c *gin.Context) {
	json, ok := bindProfile(c)
	if !ok {
		return
	}
	if err := s.SetHandle(json.Token, json.HandleStr); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}
