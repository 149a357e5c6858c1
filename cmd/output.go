package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/grading"
	"github.com/abhisek/tinysteps/internal/lessons"
	"github.com/abhisek/tinysteps/internal/stem"
	"github.com/abhisek/tinysteps/internal/ui/theme"
)

func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Print the raw JSON result")
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// userError turns service errors into the message shown to the user.
func userError(err error) error {
	if ai.KindOf(err) == ai.KindUnavailable {
		return fmt.Errorf("%s: set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY", ai.Message(err))
	}
	return err
}

func field(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s %s\n", theme.Label.Render(fmt.Sprintf("%-12s", label+":")), value)
}

func section(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, theme.Heading.Render(title))
	fmt.Fprint(w, theme.List(items))
}

func printLesson(w io.Writer, l *lessons.GeneratedLesson) {
	c := l.Content
	fmt.Fprintln(w, theme.Title.Render(c.Title))
	if c.Description != "" {
		fmt.Fprintln(w, theme.Hint.Render(c.Description))
	}
	fmt.Fprintln(w)
	if l.Template != nil {
		field(w, "Template", l.Template.ID)
	}
	field(w, "Age group", l.AgeGroup)
	field(w, "Subjects", strings.Join(l.Subjects, ", "))
	if l.Duration > 0 {
		field(w, "Duration", fmt.Sprintf("%d min", l.Duration))
	}

	section(w, "Objectives", l.Objectives)
	if c.Content != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, c.Content)
	}
	for i, a := range c.Activities {
		fmt.Fprintln(w)
		fmt.Fprintln(w, theme.Heading.Render(fmt.Sprintf("Activity %d: %s (%d min)", i+1, a.Title, a.EstimatedTime)))
		if a.Description != "" {
			fmt.Fprintln(w, a.Description)
		}
		if a.Instructions != "" {
			fmt.Fprintln(w, theme.Hint.Render(a.Instructions))
		}
		if len(a.Materials) > 0 {
			field(w, "Materials", strings.Join(a.Materials, ", "))
		}
	}
	section(w, "Assessment", c.AssessmentQuestions)
	section(w, "At home", c.HomeExtension)
}

func printGrading(w io.Writer, g *grading.GradedSubmission) {
	h := g.Grading
	fmt.Fprintf(w, "%s  %s  %s\n",
		theme.Title.Render(g.SubmissionID),
		theme.Grade(h.Grade),
		theme.Label.Render(fmt.Sprintf("confidence %.2f", g.AIConfidence)))
	if !g.AgeMatch {
		fmt.Fprintln(w, theme.Warn.Render("student age is outside the rubric's range"))
	}
	if h.Feedback != "" {
		fmt.Fprintln(w, h.Feedback)
	}
	section(w, "Strengths", h.Strengths)
	section(w, "To improve", h.AreasForImprovement)
	section(w, "Next steps", h.NextSteps)
	if h.ParentNotes != "" {
		fmt.Fprintln(w)
		field(w, "For parents", h.ParentNotes)
	}
}

func printSafety(w io.Writer, s stem.Safety) {
	field(w, "Supervision", theme.Supervision(string(s.SupervisionLevel)))
	section(w, "Risks", s.Risks)
	section(w, "Guidelines", s.Guidelines)
}

func printActivity(w io.Writer, g *stem.GeneratedActivity) {
	a := g.Activity
	fmt.Fprintln(w, theme.Title.Render(a.Title))
	if a.Description != "" {
		fmt.Fprintln(w, theme.Hint.Render(a.Description))
	}
	fmt.Fprintln(w)
	field(w, "Concept", g.Concept.Name)
	if g.Kit != nil {
		field(w, "Kit", g.Kit.Name)
	}
	section(w, "Learning goals", g.LearningGoals)
	section(w, "Materials", g.Materials)
	section(w, "Steps", a.Instructions)
	section(w, "The science", a.ScientificConcepts)
	section(w, "Going further", a.Extensions)
	section(w, "Safety notes", a.SafetyNotes)
	fmt.Fprintln(w)
	printSafety(w, g.Safety)
}
