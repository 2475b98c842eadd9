package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

var taxonomyJSON bool

var taxonomyCmd = standalone(&cobra.Command{
	Use:   "taxonomy",
	Short: "List the competency categories and labels",
	Args:  cobra.NoArgs,
	RunE:  runTaxonomy,
})

func init() {
	taxonomyCmd.Flags().BoolVar(&taxonomyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomy(cmd *cobra.Command, _ []string) error {
	tax := taxonomy
	if !loaded {
		t, err := configuredTaxonomy()
		if err != nil {
			return err
		}
		tax = t
	}

	if taxonomyJSON {
		out := make(map[string][]string, len(tax.Categories()))
		for _, cat := range tax.Categories() {
			out[string(cat)] = domain.Strings(tax.Labels(cat))
		}
		return writeJSON(cmd, out)
	}

	s := outputStyles(cmd)
	for _, cat := range tax.Categories() {
		cmd.Println(s.Subtitle.Render(string(cat)))
		cmd.Printf("  %s\n", strings.Join(domain.Strings(tax.Labels(cat)), ", "))
	}
	return nil
}
