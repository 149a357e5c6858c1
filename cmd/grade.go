package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/tinysteps/internal/grading"
	"github.com/abhisek/tinysteps/internal/ui/theme"
)

var gradeCmd = &cobra.Command{
	Use:   "grade <submissions.json>",
	Short: "Grade a file of homework submissions",
	Long: "Grades every submission in a JSON file (an array, or an object with a " +
		"\"submissions\" array). Use - to read from stdin.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, err := readSubmissions(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, user := identity(cmd)
		for i := range subs {
			subs[i].TenantID, subs[i].UserID = tenant, user
		}

		ctx := cmd.Context()
		results := a.Grader.BatchGrade(ctx, subs)

		if save, _ := cmd.Flags().GetBool("save"); save {
			for _, res := range results {
				if res.Graded == nil {
					continue
				}
				if err := a.Grader.SaveGrading(ctx, *res.Graded); err != nil {
					return fmt.Errorf("save grading for %s: %w", res.SubmissionID, userError(err))
				}
			}
		}

		w := cmd.OutOrStdout()
		if wantJSON(cmd) {
			return printJSON(w, batchView(results))
		}

		var failed int
		for i, res := range results {
			if i > 0 {
				fmt.Fprintln(w, theme.Rule(60))
			}
			if res.Err != nil {
				failed++
				fmt.Fprintf(w, "%s %s  %s\n", theme.Check(false), theme.Title.Render(res.SubmissionID), userError(res.Err))
				continue
			}
			printGrading(w, res.Graded)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d submissions failed", failed, len(results))
		}
		return nil
	},
}

var gradeCriteriaCmd = &cobra.Command{
	Use:   "criteria [assignment-type]",
	Short: "List assignment types or show one rubric",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if len(args) == 0 {
			for _, t := range grading.AssignmentTypes() {
				fmt.Fprintln(w, t)
			}
			return nil
		}
		c, ok := grading.LookupCriteria(args[0])
		if !ok {
			return fmt.Errorf("no grading criteria for %q", args[0])
		}
		if wantJSON(cmd) {
			return printJSON(w, c)
		}
		fmt.Fprintln(w, theme.Title.Render(c.AssignmentType))
		field(w, "Ages", fmt.Sprintf("%d-%d", c.AgeExpectations.MinAge, c.AgeExpectations.MaxAge))
		fmt.Fprintln(w, theme.Hint.Render(c.AgeExpectations.DevelopmentalNotes))
		fmt.Fprintln(w)
		for _, r := range c.Rubric {
			fmt.Fprintf(w, "%s %-24s %s\n", theme.Bullet.Render(strings.Repeat("●", r.Weight)+strings.Repeat("○", 5-r.Weight)), r.Criterion, theme.Label.Render(r.Description))
		}
		return nil
	},
}

var gradeReviewCmd = &cobra.Command{
	Use:   "review <submission-id>",
	Short: "Record a teacher review of a graded submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		approve, _ := f.GetBool("approve")
		grade, _ := f.GetString("grade")
		feedback, _ := f.GetString("feedback")
		notes, _ := f.GetString("notes")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, user := identity(cmd)
		req := grading.ReviewRequest{
			TenantID:        tenant,
			SubmissionID:    args[0],
			ReviewerID:      user,
			Approved:        approve,
			AdditionalNotes: notes,
		}
		if grade != "" || feedback != "" {
			req.Modifications = &grading.HomeworkGrading{Grade: grade, Feedback: feedback}
		}
		rev, err := a.Grader.ReviewSubmission(cmd.Context(), req)
		if err != nil {
			return userError(err)
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), rev)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s review v%d recorded for %s\n", theme.Check(true), rev.Version, rev.SubmissionID)
		return nil
	},
}

var gradeProgressCmd = &cobra.Command{
	Use:   "progress <student-id>",
	Short: "Summarize a student's graded work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		name, _ := f.GetString("name")
		from, err := flagDate(cmd, "from")
		if err != nil {
			return err
		}
		to, err := flagDate(cmd, "to")
		if err != nil {
			return err
		}
		if !to.IsZero() {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, user := identity(cmd)
		report, err := a.Grader.GenerateProgressReport(cmd.Context(), grading.ProgressRequest{
			UserID:      user,
			TenantID:    tenant,
			StudentID:   args[0],
			StudentName: name,
			From:        from,
			To:          to,
		})
		if err != nil {
			return userError(err)
		}

		w := cmd.OutOrStdout()
		if wantJSON(cmd) {
			return printJSON(w, report)
		}
		fmt.Fprintf(w, "%s  %s\n", theme.Title.Render(report.StudentID),
			theme.Label.Render(fmt.Sprintf("%d graded submissions", report.TotalSubmissions)))
		categories := make([]string, 0, len(report.Subjects))
		for c := range report.Subjects {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			sp := report.Subjects[c]
			fmt.Fprintf(w, "  %-18s %3d  avg %.2f  %s\n", c, sp.Count, sp.AverageScore, sp.Trend)
		}
		if an := report.Analysis; an != nil {
			fmt.Fprintln(w)
			fmt.Fprintln(w, an.OverallSummary)
			section(w, "Strengths", an.Strengths)
			section(w, "Areas for growth", an.AreasForGrowth)
			section(w, "Recommendations", an.Recommendations)
			if an.ParentSummary != "" {
				fmt.Fprintln(w)
				field(w, "For parents", an.ParentSummary)
			}
		}
		return nil
	},
}

type batchItem struct {
	SubmissionID string                    `json:"submission_id"`
	Result       *grading.GradedSubmission `json:"result,omitempty"`
	Error        string                    `json:"error,omitempty"`
}

func batchView(results []grading.BatchResult) []batchItem {
	out := make([]batchItem, len(results))
	for i, r := range results {
		out[i] = batchItem{SubmissionID: r.SubmissionID, Result: r.Graded}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

// readSubmissions reads path, or stdin for "-".
func readSubmissions(stdin io.Reader, path string) ([]grading.Submission, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read submissions: %w", err)
	}
	return decodeSubmissions(data)
}

// decodeSubmissions accepts a JSON array or {"submissions": [...]}.
func decodeSubmissions(data []byte) ([]grading.Submission, error) {
	data = bytes.TrimSpace(data)
	var subs []grading.Submission
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &subs); err != nil {
			return nil, fmt.Errorf("decode submissions: %w", err)
		}
	} else {
		var wrapped struct {
			Submissions []grading.Submission `json:"submissions"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode submissions: %w", err)
		}
		subs = wrapped.Submissions
	}
	if len(subs) == 0 {
		return nil, errors.New("no submissions found")
	}
	for i := range subs {
		if subs[i].ID == "" {
			subs[i].ID = fmt.Sprintf("submission-%d", i+1)
		}
	}
	return subs, nil
}

func flagDate(cmd *cobra.Command, name string) (time.Time, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want YYYY-MM-DD, got %q", name, raw)
	}
	return t, nil
}

func init() {
	gradeCmd.Flags().Bool("save", false, "Store each grading on its submission row")
	addJSONFlag(gradeCmd)

	addJSONFlag(gradeCriteriaCmd)

	gradeReviewCmd.Flags().Bool("approve", false, "Approve the AI grading")
	gradeReviewCmd.Flags().String("grade", "", "Replacement grade")
	gradeReviewCmd.Flags().String("feedback", "", "Replacement feedback")
	gradeReviewCmd.Flags().String("notes", "", "Additional notes")
	addJSONFlag(gradeReviewCmd)

	gradeProgressCmd.Flags().String("name", "", "Student's first name for the narrative")
	gradeProgressCmd.Flags().String("from", "", "Start date, YYYY-MM-DD")
	gradeProgressCmd.Flags().String("to", "", "End date, YYYY-MM-DD (inclusive)")
	addJSONFlag(gradeProgressCmd)

	gradeCmd.AddCommand(gradeCriteriaCmd)
	gradeCmd.AddCommand(gradeReviewCmd)
	gradeCmd.AddCommand(gradeProgressCmd)
}
