package cmd

import (
	"fmt"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skills and keywords used for matching",
	Run: func(cmd *cobra.Command, _ []string) {
		config, err := getConfig()
		if err != nil {
			log.Fatalf("getting a config: %s", err)
		}

		taxonomy, err := config.taxonomy()
		if err != nil {
			log.Fatalf("building the skill taxonomy: %s", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, skill := range taxonomy.Skills() {
			fmt.Fprintf(w, "%s\t%s\n", skill.Name, strings.Join(skill.Keywords, ", "))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(skillsCmd)
}
