package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tinysteps/internal/stem"
)

type safetyRequest struct {
	Materials []string `json:"materials"`
	Age       int      `json:"age"`
}

func (h *handler) generateActivity(c *gin.Context) {
	var req stem.ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Age <= 0 {
		badRequest(c, "age must be positive")
		return
	}
	req.TenantID, req.UserID = tenantID(c), userID(c)

	activity, err := h.stem.GenerateActivity(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"activity": activity})
}

func (h *handler) safetyGuidelines(c *gin.Context) {
	var req safetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Age <= 0 {
		badRequest(c, "age must be positive")
		return
	}
	RespondOK(c, gin.H{"safety": stem.SafetyGuidelines(req.Materials, req.Age)})
}

// listConcepts returns the whole catalog, or only the concepts suitable
// for ?age= when given.
func (h *handler) listConcepts(c *gin.Context) {
	raw := c.Query("age")
	if raw == "" {
		RespondOK(c, gin.H{"concepts": stem.Concepts()})
		return
	}
	age, err := strconv.Atoi(raw)
	if err != nil || age <= 0 {
		badRequest(c, "age must be a positive integer")
		return
	}
	concepts := stem.ConceptsForAge(age)
	if concepts == nil {
		concepts = []stem.Concept{}
	}
	RespondOK(c, gin.H{"concepts": concepts})
}

func (h *handler) listKits(c *gin.Context) {
	RespondOK(c, gin.H{"kits": stem.Kits()})
}
