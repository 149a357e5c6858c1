package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/tinysteps/internal/app"
	"github.com/abhisek/tinysteps/internal/lessons"
	"github.com/abhisek/tinysteps/internal/ui/theme"
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Browse templates and generate lesson plans",
}

var lessonTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the lesson templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		tmpls := lessons.Templates()
		w := cmd.OutOrStdout()
		if wantJSON(cmd) {
			return printJSON(w, tmpls)
		}

		fmt.Fprintf(w, "%-22s  %-28s  %-10s  %4s  %s\n", "ID", "Title", "Age", "Min", "Subjects")
		fmt.Fprintln(w, theme.Rule(86))
		for _, t := range tmpls {
			fmt.Fprintf(w, "%-22s  %-28s  %-10s  %4d  %s\n",
				t.ID, truncate(t.Title, 28), t.AgeGroup, t.DurationMinutes, strings.Join(t.Subjects, ", "))
		}
		return nil
	},
}

var lessonGenerateCmd = &cobra.Command{
	Use:   "generate <template-id>",
	Short: "Generate a lesson from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, user := identity(cmd)
		objectives, _ := cmd.Flags().GetStringArray("objective")
		notes, _ := cmd.Flags().GetString("notes")

		lesson, err := a.Lessons.GenerateFromTemplate(cmd.Context(), lessons.TemplateRequest{
			UserID:           user,
			TenantID:         tenant,
			TemplateID:       args[0],
			CustomObjectives: objectives,
			Notes:            notes,
		})
		if err != nil {
			return userError(err)
		}
		return finishLesson(cmd, a, lesson)
	},
}

var lessonCustomCmd = &cobra.Command{
	Use:   "custom",
	Short: "Generate a lesson on any topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		topic, _ := f.GetString("topic")
		if strings.TrimSpace(topic) == "" {
			return fmt.Errorf("--topic is required")
		}
		subjects, _ := f.GetStringSlice("subject")
		ageGroup, _ := f.GetString("age-group")
		duration, _ := f.GetInt("duration")
		difficulty, _ := f.GetString("difficulty")
		objectives, _ := f.GetStringArray("objective")
		notes, _ := f.GetString("notes")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, user := identity(cmd)
		lesson, err := a.Lessons.GenerateCustom(cmd.Context(), lessons.CustomRequest{
			UserID:          user,
			TenantID:        tenant,
			Topic:           topic,
			Subjects:        subjects,
			AgeGroup:        ageGroup,
			DurationMinutes: duration,
			Difficulty:      difficulty,
			Objectives:      objectives,
			Notes:           notes,
		})
		if err != nil {
			return userError(err)
		}
		return finishLesson(cmd, a, lesson)
	},
}

// finishLesson saves the lesson when --save is set, then prints it.
func finishLesson(cmd *cobra.Command, a *app.App, lesson *lessons.GeneratedLesson) error {
	var savedID string
	if save, _ := cmd.Flags().GetBool("save"); save {
		tenant, user := identity(cmd)
		category, _ := cmd.Flags().GetString("category")
		id, err := a.Lessons.Save(cmd.Context(), lessons.SaveRequest{
			TenantID:   tenant,
			TeacherID:  user,
			CategoryID: category,
			Lesson:     *lesson,
		})
		if err != nil {
			return err
		}
		savedID = id
	}

	w := cmd.OutOrStdout()
	if wantJSON(cmd) {
		return printJSON(w, lesson)
	}
	printLesson(w, lesson)
	if savedID != "" {
		fmt.Fprintf(w, "\n%s lesson saved as %s\n", theme.Check(true), savedID)
	}
	return nil
}

func addLessonFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("objective", "o", nil, "Learning objective (repeatable)")
	cmd.Flags().String("notes", "", "Extra notes for the lesson")
	cmd.Flags().Bool("save", false, "Save the generated lesson")
	cmd.Flags().String("category", "", "Category id for a saved lesson")
	addJSONFlag(cmd)
}

func init() {
	addJSONFlag(lessonTemplatesCmd)

	addLessonFlags(lessonGenerateCmd)

	addLessonFlags(lessonCustomCmd)
	lessonCustomCmd.Flags().String("topic", "", "Lesson topic")
	lessonCustomCmd.Flags().StringSlice("subject", nil, "Subjects, e.g. math,science")
	lessonCustomCmd.Flags().String("age-group", lessons.AgePreschool, "toddler, preschool or pre-k")
	lessonCustomCmd.Flags().Int("duration", 30, "Duration in minutes")
	lessonCustomCmd.Flags().String("difficulty", lessons.DifficultyBeginner, "beginner, intermediate or advanced")

	lessonCmd.AddCommand(lessonTemplatesCmd)
	lessonCmd.AddCommand(lessonGenerateCmd)
	lessonCmd.AddCommand(lessonCustomCmd)
}
