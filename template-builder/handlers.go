package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"videogen/template-builder/ai"
	"videogen/template-builder/captions"
	"videogen/template-builder/engine"
	"videogen/template-builder/store"
)

type apiServer struct {
	store     *store.Store
	ai        ai.Service
	presets   *captions.Library
	durations engine.DurationConfig
}

type generateTemplateRequest struct {
	Script           string          `json:"script" binding:"required"`
	UserID           string          `json:"userId" binding:"required"`
	VoiceID          string          `json:"voiceId" binding:"required"`
	EditorialProfile string          `json:"editorialProfile"`
	Captions         captions.Config `json:"captions"`
}

func (s *apiServer) handleGenerateTemplate(c *gin.Context) {
	var req generateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	assets, err := s.store.GetUserAssets(ctx, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if len(assets) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("no video assets found for user %s", req.UserID),
		})
		return
	}

	// One builder per request; the stages carry no shared mutable state.
	builder := engine.NewTemplateBuilder(s.ai, s.presets, s.durations)
	template, err := builder.Build(ctx, engine.BuildRequest{
		Script:           req.Script,
		Assets:           assets,
		VoiceID:          req.VoiceID,
		EditorialProfile: req.EditorialProfile,
		Captions:         req.Captions,
	})
	if err != nil {
		c.JSON(statusForPipelineError(err), gin.H{"success": false, "error": err.Error()})
		return
	}

	draftID, err := s.store.SaveDraft(ctx, req.UserID, req.VoiceID, template)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	if err := s.store.IncrementUsage(ctx, req.UserID); err != nil {
		fmt.Printf("Warning: failed to increment usage for user %s: %v\n", req.UserID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"templateId": draftID,
		"template":   template,
	})
}

func (s *apiServer) handleGetTemplate(c *gin.Context) {
	draft, err := s.store.GetDraft(c.Request.Context(), c.Param("id"))
	if errors.Is(err, mongo.ErrNoDocuments) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "template not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.Header("Content-Type", "application/json")
	c.String(http.StatusOK, `{"success":true,"templateId":%q,"template":%s}`, draft.ID, draft.TemplateJSON)
}

func (s *apiServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusForPipelineError maps pipeline failure kinds onto HTTP statuses. The
// model misbehaving is an upstream failure; exhausted repairs mean the inputs
// themselves don't fit.
func statusForPipelineError(err error) int {
	var contractErr *engine.ModelContractError
	var integrityErr *engine.IntegrityError
	var repairErr *engine.RepairExhaustedError
	switch {
	case errors.As(err, &contractErr), errors.As(err, &integrityErr):
		return http.StatusBadGateway
	case errors.As(err, &repairErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
