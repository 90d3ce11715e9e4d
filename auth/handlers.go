package auth

import (
	"flockr/apierr"

	"github.com/gin-gonic/gin"
)

func (s *Service) HandleRegister(c *gin.Context) {
	var json struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		NameFirst string `json:"name_first"`
		NameLast  string `json:"name_last"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	session, err := s.Register(json.Email, json.Password, json.NameFirst, json.NameLast)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, session)
}

func (s *Service) HandleLogin(c *gin.Context) {
	var json struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	session, err := s.Login(json.Email, json.Password)
	if err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, session)
}

func (s *Service) HandleLogout(c *gin.Context) {
	var json struct {
		Token string `json:"token"`
	}
	_ = c.ShouldBindJSON(&json)
	c.JSON(200, gin.H{"is_success": s.Logout(json.Token)})
}

func (s *Service) HandlePasswordResetRequest(c *gin.Context) {
	var json struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	if err := s.RequestReset(c.Request.Context(), json.Email); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}

func (s *Service) HandlePasswordReset(c *gin.Context) {
	var json struct {
		ResetCode   string `json:"reset_code"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&json); err != nil {
		apierr.Write(c, apierr.Input("Invalid request data"))
		return
	}

	if err := s.ConsumeReset(json.ResetCode, json.NewPassword); err != nil {
		apierr.Write(c, err)
		return
	}
	c.JSON(200, gin.H{})
}
