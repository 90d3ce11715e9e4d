package admin

import (
	"flockr/apierr"
	"flockr/types"

	"github.com/gin-gonic/gin"
)

func (s *Service) HandleChangePermission(c *gin.Context) {
	var json struct {
		Token        string        `json:"token"`
		UserID       types.FlexInt `json:"u_id"`
		PermissionID types.FlexInt `json:"permission_id"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	if err := s.ChangePermission(json.Token, int(json.UserID), int(json.PermissionID)); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandleClear(c *gin.Context) {
	s.Clear()
	c.JSON(200, gin.H{})
}

func HandleEcho(c *gin.Context) {
	data, err := Echo(c.Query("data"))
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{"data": data})
}
