package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tinysteps/internal/grading"
)

type batchGradeRequest struct {
	Submissions []grading.Submission `json:"submissions"`
}

type batchGradeItem struct {
	SubmissionID string                    `json:"submission_id"`
	Result       *grading.GradedSubmission `json:"result,omitempty"`
	Error        *APIError                 `json:"error,omitempty"`
}

func (h *handler) getCriteria(c *gin.Context) {
	criteria, err := h.grader.Criteria(c.Param("type"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"criteria": criteria})
}

// gradeSubmission grades one submission. With ?save=true the grading is
// also stored on the submission row named by its id.
func (h *handler) gradeSubmission(c *gin.Context) {
	var sub grading.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if msg := validateSubmission(sub); msg != "" {
		badRequest(c, msg)
		return
	}
	save, _ := strconv.ParseBool(c.DefaultQuery("save", "false"))
	if save && sub.ID == "" {
		badRequest(c, "id is required to save a grading")
		return
	}
	sub.TenantID, sub.UserID = tenantID(c), userID(c)

	ctx := c.Request.Context()
	graded, err := h.grader.GradeSubmission(ctx, sub)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if save {
		if err := h.grader.SaveGrading(ctx, *graded); err != nil {
			h.respondErr(c, err)
			return
		}
	}
	RespondOK(c, gin.H{"result": graded})
}

// batchGrade answers 200 with one entry per submission, in request order;
// failures are reported per entry.
func (h *handler) batchGrade(c *gin.Context) {
	var req batchGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if len(req.Submissions) == 0 {
		badRequest(c, "submissions must not be empty")
		return
	}
	if len(req.Submissions) > h.maxBatch {
		badRequest(c, fmt.Sprintf("at most %d submissions per batch", h.maxBatch))
		return
	}
	for i, sub := range req.Submissions {
		if msg := validateSubmission(sub); msg != "" {
			badRequest(c, fmt.Sprintf("submissions[%d]: %s", i, msg))
			return
		}
		req.Submissions[i].TenantID, req.Submissions[i].UserID = tenantID(c), userID(c)
	}

	results := h.grader.BatchGrade(c.Request.Context(), req.Submissions)
	items := make([]batchGradeItem, len(results))
	for i, res := range results {
		items[i] = batchGradeItem{SubmissionID: res.SubmissionID, Result: res.Graded}
		if res.Err != nil {
			_, apiErr := classify(res.Err)
			items[i].Error = &apiErr
		}
	}
	RespondOK(c, gin.H{"results": items})
}

func (h *handler) reviewSubmission(c *gin.Context) {
	var req grading.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if userID(c) == "" {
		badRequest(c, "missing "+HeaderUserID+" header")
		return
	}
	req.TenantID, req.SubmissionID, req.ReviewerID = tenantID(c), c.Param("id"), userID(c)

	review, err := h.grader.ReviewSubmission(c.Request.Context(), req)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *handler) listReviews(c *gin.Context) {
	reviews, err := h.grader.Reviews(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"reviews": reviews})
}

func (h *handler) progressReport(c *gin.Context) {
	from, err := parseDate(c.Query("from"), false)
	if err != nil {
		badRequest(c, "invalid from: "+err.Error())
		return
	}
	to, err := parseDate(c.Query("to"), true)
	if err != nil {
		badRequest(c, "invalid to: "+err.Error())
		return
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		badRequest(c, "to must not be before from")
		return
	}

	report, err := h.grader.GenerateProgressReport(c.Request.Context(), grading.ProgressRequest{
		UserID:      userID(c),
		TenantID:    tenantID(c),
		StudentID:   c.Param("id"),
		StudentName: c.Query("name"),
		From:        from,
		To:          to,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	RespondOK(c, gin.H{"report": report})
}

func validateSubmission(sub grading.Submission) string {
	switch {
	case strings.TrimSpace(sub.StudentID) == "":
		return "student_id is required"
	case strings.TrimSpace(sub.AssignmentType) == "":
		return "assignment_type is required"
	case sub.StudentAge <= 0:
		return "student_age must be positive"
	}
	return ""
}

// parseDate accepts RFC 3339 or a plain date. A plain end date covers the
// whole day. An empty value is the zero time.
func parseDate(s string, endOfDay bool) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("want YYYY-MM-DD or RFC 3339, got %q", s)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
