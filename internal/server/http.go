package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zeusync/hvactwin/internal/core/command"
	"github.com/zeusync/hvactwin/internal/core/scene"
	"github.com/zeusync/hvactwin/internal/core/twinerr"
)

type pickRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type resizeRequest struct {
	Width       int `json:"width" binding:"required"`
	Height      int `json:"height" binding:"required"`
	SparkWidth  int `json:"sparkWidth"`
	SparkHeight int `json:"sparkHeight"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": s.hub.size()})
}

func (s *Server) handleView(c *gin.Context) {
	c.JSON(http.StatusOK, s.View())
}

func (s *Server) handleCommand(c *gin.Context) {
	var cmd command.Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.dispatch(c, cmd)
}

func (s *Server) handlePick(c *gin.Context) {
	var req pickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.dispatch(c, command.Select(req.X, req.Y))
}

func (s *Server) handleResize(c *gin.Context) {
	var req resizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := command.Resize(req.Width, req.Height)
	cmd.SparkWidth, cmd.SparkHeight = req.SparkWidth, req.SparkHeight
	s.dispatch(c, cmd)
}

func (s *Server) dispatch(c *gin.Context, cmd command.Command) {
	out, err := s.dispatcher.Dispatch(cmd)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": twinerr.CodeOf(err).String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcome": out, "view": s.View()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, scene.ErrUnknownAsset):
		return http.StatusNotFound
	case errors.Is(err, command.ErrUnknownKind),
		errors.Is(err, command.ErrInvalidCommand),
		errors.Is(err, twinerr.ErrRenderSurfaceUnavailable),
		errors.Is(err, twinerr.ErrConfiguration):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
