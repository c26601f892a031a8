package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/selfcheck/internal/model"
	"github.com/nao1215/selfcheck/internal/taxonomy"
)

// NewTaxonomyCmd creates the taxonomy command.
func NewTaxonomyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "List dimensions, sections and indicators",
		Long: `Taxonomy lists the quality framework used by the questionnaire: every
dimension with its color, its sections and the indicators with their ids.
Indicator ids are used in answer files.

Examples:
  # List the built-in framework
  selfcheck taxonomy

  # Include the questions of each indicator
  selfcheck taxonomy --questions

  # Print the built-in framework as YAML to start a custom one
  selfcheck taxonomy --dump > my-framework.yaml`,
		Args: cobra.NoArgs,
		RunE: runTaxonomyCmd,
	}

	cmd.Flags().String("taxonomy", "", "Taxonomy file to list instead of the built-in one")
	cmd.Flags().BoolP("questions", "q", false, "Include questions")
	cmd.Flags().Bool("dump", false, "Print the built-in taxonomy as YAML")

	return cmd
}

// runTaxonomyCmd executes the taxonomy command.
func runTaxonomyCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	dump, err := cmd.Flags().GetBool("dump")
	if err != nil {
		return err
	}
	if dump {
		_, err := out.Write(taxonomy.Raw())
		return err
	}

	path, err := cmd.Flags().GetString("taxonomy")
	if err != nil {
		return err
	}
	withQuestions, err := cmd.Flags().GetBool("questions")
	if err != nil {
		return err
	}

	tax, err := taxonomy.Load(path)
	if err != nil {
		return err
	}

	printTaxonomy(out, tax, withQuestions)
	return nil
}

// printTaxonomy writes the taxonomy tree.
func printTaxonomy(out io.Writer, tax *model.Taxonomy, withQuestions bool) {
	for _, d := range tax.Dimensions() {
		fmt.Fprintf(out, "%s  %s (%s)\n", d.Color, d.Title, d.ID)
		for _, s := range d.Sections {
			fmt.Fprintf(out, "  %s\n", s.Title)
			for _, ind := range s.Indicators {
				fmt.Fprintf(out, "    %-24s %s (%d questions)\n", ind.ID, ind.Title, len(ind.Questions))
				if !withQuestions {
					continue
				}
				for _, q := range ind.Questions {
					fmt.Fprintf(out, "      %-4s %s\n", q.ID, q.Text)
				}
			}
		}
	}
	fmt.Fprintf(out, "\n%d indicators\n", tax.Len())
}
