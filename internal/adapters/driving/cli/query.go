package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driving/tui/render"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

var (
	queryTopK    int
	queryTags    []string
	queryJSON    bool
	querySources bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a question from the tagged library",
	Long: `Retrieves the chunks most similar to the question and asks the
generator for a competency, quoted extracts and a teaching suggestion for
each extract.

--tag accepts competency labels or category names; a category selects all
four of its competencies. Run "heartgpt taxonomy" for the list.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	queryCmd.Flags().StringSliceVarP(&queryTags, "tag", "t", nil, "restrict retrieval to competencies or categories")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the result as JSON")
	queryCmd.Flags().BoolVarP(&querySources, "sources", "s", false, "list the retrieved chunks")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errAnswerNotConfigured
	}

	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	opts := domain.QueryOptions{TopK: queryTopK}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if len(queryTags) > 0 {
		opts.Filter = taxonomy.Filter(queryTags)
		if len(opts.Filter.Tags) == 0 {
			return fmt.Errorf("%w: no known competency in %s", domain.ErrInvalidInput, strings.Join(queryTags, ", "))
		}
	}

	result, err := answerService.Answer(cmd.Context(), question, opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return writeJSON(cmd, result)
	}

	s := outputStyles(cmd)
	width := outputWidth(cmd)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, render.Answer(s, result, width))
	if querySources {
		fmt.Fprintln(out)
		fmt.Fprintln(out, render.Matches(s, result.Matches, width))
	}
	return nil
}
