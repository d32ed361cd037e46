package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nagarik-sewa/internal/messaging"
	"nagarik-sewa/internal/models"
)

type sendMessageRequest struct {
	RecipientID     string `json:"recipient_id"`
	RecipientOffice string `json:"recipient_office"`
	Subject         string `json:"subject"`
	Content         string `json:"content"`
	Priority        string `json:"priority" binding:"omitempty,priority"`
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, bindError(err))
		return
	}
	msg, err := s.deps.Messages.Send(c.Request.Context(), identity(c), messaging.SendRequest{
		RecipientID:     req.RecipientID,
		RecipientOffice: req.RecipientOffice,
		Subject:         req.Subject,
		Content:         req.Content,
		Priority:        models.Priority(req.Priority),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (s *Server) receivedMessages(c *gin.Context) {
	msgs, err := s.deps.Messages.Received(c.Request.Context(), identity(c).Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (s *Server) sentMessages(c *gin.Context) {
	msgs, err := s.deps.Messages.Sent(c.Request.Context(), identity(c).Role)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (s *Server) markMessageRead(c *gin.Context) {
	msg, err := s.deps.Messages.MarkRead(c.Request.Context(), identity(c).Role, c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (s *Server) officials(c *gin.Context) {
	accounts, err := s.deps.Messages.Directory(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// me returns the stored account of the caller, or the token snapshot when no store is wired.
func (s *Server) me(c *gin.Context) {
	cl := claims(c)
	if s.deps.Accounts == nil {
		c.JSON(http.StatusOK, cl.Account())
		return
	}
	acct, err := s.deps.Accounts.GetAccount(c.Request.Context(), cl.Subject)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, acct)
}
