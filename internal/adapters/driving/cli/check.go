package cli

import (
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the embedding and LLM providers are reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if checkProviders == nil {
			return errCheckNotConfigured
		}
		if err := checkProviders(cmd.Context()); err != nil {
			return err
		}
		cmd.Println("Providers OK")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
