package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/pitchprophet/internal/app"
	"github.com/ppiankov/pitchprophet/internal/model"
	"github.com/ppiankov/pitchprophet/internal/render"
)

type selectRequest struct {
	League string `json:"league" form:"league" binding:"required"`
}

type stateResponse struct {
	app.State
	ActionLabel string              `json:"action_label"`
	CanGenerate bool                `json:"can_generate"`
	Display     *render.DisplayTree `json:"display"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) snapshot() stateResponse {
	st := s.controller.State()
	resp := stateResponse{
		State:       st,
		ActionLabel: st.ActionLabel(),
		CanGenerate: st.CanGenerate(),
	}
	if st.Result != nil && !st.IsLoading {
		tree := s.presenter.Present(st.Result)
		resp.Display = &tree
	}
	return resp
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": s.opts.Provider,
	})
}

func (s *Server) handleLeagues(c *gin.Context) {
	c.JSON(http.StatusOK, model.Leagues())
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, s.snapshot())
}

func (s *Server) handleSelect(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "league is required"})
		return
	}

	if err := s.controller.SelectLeague(req.League); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.snapshot())
}

func (s *Server) handleGenerate(c *gin.Context) {
	err := s.controller.Start(s.baseCtx)
	switch {
	case errors.Is(err, app.ErrBusy):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, app.ErrNoLeagueSelected):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusAccepted, s.snapshot())
	}
}

func (s *Server) handleSelectForm(c *gin.Context) {
	var req selectRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "league is required")
		return
	}
	if err := s.controller.SelectLeague(req.League); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleGenerateForm(c *gin.Context) {
	// a disabled button cannot post; a stale page that does is sent back home
	if err := s.controller.Start(s.baseCtx); err != nil {
		s.logger.WithError(err).Debug("Generate ignored")
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := writePage(c.Writer, s.snapshot(), s.opts.Provider); err != nil {
		s.logger.WithError(err).Error("Render page")
	}
}
