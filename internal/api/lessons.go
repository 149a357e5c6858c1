package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/lessons"
)

func (h *handler) health(c *gin.Context) {
	RespondOK(c, gin.H{"ai_available": h.client.Available()})
}

func (h *handler) listTemplates(c *gin.Context) {
	RespondOK(c, gin.H{"templates": h.lessons.Templates()})
}

func (h *handler) generateFromTemplate(c *gin.Context) {
	var req lessons.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.TemplateID) == "" {
		badRequest(c, "template_id is required")
		return
	}
	req.TenantID, req.UserID = tenantID(c), userID(c)

	lesson, err := h.lessons.GenerateFromTemplate(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"lesson": lesson})
}

func (h *handler) generateCustom(c *gin.Context) {
	var req lessons.CustomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		badRequest(c, "topic is required")
		return
	}
	req.TenantID, req.UserID = tenantID(c), userID(c)

	lesson, err := h.lessons.GenerateCustom(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"lesson": lesson})
}

func (h *handler) saveLesson(c *gin.Context) {
	var req lessons.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Lesson.Content.Title) == "" {
		badRequest(c, "lesson.content.title is required")
		return
	}
	req.TenantID, req.TeacherID = tenantID(c), userID(c)

	id, err := h.lessons.Save(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handler) getLesson(c *gin.Context) {
	rec, err := h.lessons.Lesson(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	// Lessons of other tenants are reported as missing.
	if rec.TenantID != tenantID(c) {
		h.respondErr(c, ai.NotFound("Lesson not found"))
		return
	}
	RespondOK(c, gin.H{"lesson": rec})
}
