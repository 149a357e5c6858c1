package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/tinysteps/internal/stem"
	"github.com/abhisek/tinysteps/internal/ui/theme"
)

var stemCmd = &cobra.Command{
	Use:   "stem",
	Short: "STEM concepts, kits, activities and safety checks",
}

var stemSafetyCmd = &cobra.Command{
	Use:   "safety <material>...",
	Short: "Check a material list for risks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetInt("age")
		if age <= 0 {
			return fmt.Errorf("--age must be positive")
		}
		s := stem.SafetyGuidelines(args, age)
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), s)
		}
		printSafety(cmd.OutOrStdout(), s)
		return nil
	},
}

var stemConceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "List STEM concepts, optionally for one age",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetInt("age")
		concepts := stem.Concepts()
		if age > 0 {
			concepts = stem.ConceptsForAge(age)
		}

		w := cmd.OutOrStdout()
		if wantJSON(cmd) {
			if concepts == nil {
				concepts = []stem.Concept{}
			}
			return printJSON(w, concepts)
		}
		if len(concepts) == 0 {
			fmt.Fprintln(w, "No concepts for this age.")
			return nil
		}
		fmt.Fprintf(w, "%-20s  %-26s  %-6s  %-12s  %s\n", "ID", "Name", "Ages", "Subject", "Complexity")
		fmt.Fprintln(w, theme.Rule(82))
		for _, c := range concepts {
			fmt.Fprintf(w, "%-20s  %-26s  %-6s  %-12s  %s\n",
				c.ID, truncate(c.Name, 26), fmt.Sprintf("%d-%d", c.AgeRange.Min, c.AgeRange.Max), c.Subject, c.Complexity)
		}
		return nil
	},
}

var stemKitsCmd = &cobra.Command{
	Use:   "kits",
	Short: "List material kits",
	RunE: func(cmd *cobra.Command, args []string) error {
		kits := stem.Kits()
		w := cmd.OutOrStdout()
		if wantJSON(cmd) {
			return printJSON(w, kits)
		}
		for _, k := range kits {
			fmt.Fprintf(w, "%s  %s  %s\n", theme.Title.Render(k.ID), k.Name, theme.Supervision(string(k.SafetyLevel)))
			for _, it := range k.Items {
				line := fmt.Sprintf("%d × %s", it.Quantity, it.Name)
				if it.Optional {
					line += theme.Label.Render(" (optional)")
				}
				fmt.Fprint(w, theme.List([]string{line}))
			}
		}
		return nil
	},
}

var stemActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Generate a STEM activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		age, _ := f.GetInt("age")
		if age <= 0 {
			return fmt.Errorf("--age must be positive")
		}
		conceptID, _ := f.GetString("concept")
		kitID, _ := f.GetString("kit")
		materials, _ := f.GetStringSlice("material")
		goals, _ := f.GetStringArray("goal")
		duration, _ := f.GetInt("duration")
		groupSize, _ := f.GetInt("group-size")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		tenant, user := identity(cmd)
		act, err := a.STEM.GenerateActivity(cmd.Context(), stem.ActivityRequest{
			UserID:          user,
			TenantID:        tenant,
			ConceptID:       conceptID,
			KitID:           kitID,
			Age:             age,
			Materials:       materials,
			LearningGoals:   goals,
			DurationMinutes: duration,
			GroupSize:       groupSize,
		})
		if err != nil {
			return userError(err)
		}
		if wantJSON(cmd) {
			return printJSON(cmd.OutOrStdout(), act)
		}
		printActivity(cmd.OutOrStdout(), act)
		return nil
	},
}

func init() {
	stemSafetyCmd.Flags().Int("age", 0, "Child's age in years")
	addJSONFlag(stemSafetyCmd)

	stemConceptsCmd.Flags().Int("age", 0, "Only concepts suitable for this age")
	addJSONFlag(stemConceptsCmd)

	addJSONFlag(stemKitsCmd)

	af := stemActivityCmd.Flags()
	af.Int("age", 0, "Child's age in years")
	af.String("concept", "", "Concept id (default: chosen for the age and kit)")
	af.String("kit", "", "Material kit id")
	af.StringSlice("material", nil, "Extra materials")
	af.StringArray("goal", nil, "Learning goal (repeatable)")
	af.Int("duration", 20, "Duration in minutes")
	af.Int("group-size", 0, "Number of children")
	addJSONFlag(stemActivityCmd)

	stemCmd.AddCommand(stemSafetyCmd)
	stemCmd.AddCommand(stemConceptsCmd)
	stemCmd.AddCommand(stemKitsCmd)
	stemCmd.AddCommand(stemActivityCmd)
}
