// Package cli provides the cobra command tree for heartgpt.
// It is a driving adapter: commands call the core through driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driving"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// standaloneAnnotation marks commands that run without the pipeline services.
const standaloneAnnotation = "standalone"

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Services is everything the commands need from the composition root.
type Services struct {
	Ingest   driving.IngestService
	Answer   driving.AnswerService
	Library  driving.LibraryService
	Search   driving.SearchService
	Taxonomy domain.Taxonomy

	// TopK is the configured default for query commands.
	TopK int

	// ServerAddr is the configured HTTP listen address.
	ServerAddr string

	// Check pings the AI providers. Optional.
	Check func(ctx context.Context) error

	// Close releases providers and storage. Optional.
	Close func() error
}

// Loader builds the services for a config directory. An empty configDir
// selects the default location.
type Loader func(ctx context.Context, configDir string) (*Services, error)

var (
	verbose   bool
	configDir string

	loader   Loader
	loaded   bool
	closeFns []func() error

	ingestService  driving.IngestService
	answerService  driving.AnswerService
	libraryService driving.LibraryService
	searchService  driving.SearchService
	checkProviders func(ctx context.Context) error
	taxonomy       = domain.DefaultTaxonomy()
	defaultTopK    = domain.DefaultTopK
	serverAddr     = domain.DefaultServerAddr
)

var rootCmd = &cobra.Command{
	Use:   "heartgpt",
	Short: "Competency-tagged answers from your teaching library",
	Long: `heartgpt ingests educational documents, tags every chunk with a
competency from a fixed 16-label taxonomy, and answers questions with
quoted extracts and teaching suggestions drawn from the tagged library.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  loadServices,
	PersistentPostRunE: closeServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.heartgpt)")
}

// SetLoader registers the function that builds services on first use.
func SetLoader(l Loader) {
	loader = l
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Annotations[standaloneAnnotation] == "true" || loader == nil || loaded {
		return nil
	}

	svc, err := loader(cmd.Context(), configDir)
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	applyServices(svc)
	loaded = true
	return nil
}

func applyServices(svc *Services) {
	ingestService = svc.Ingest
	answerService = svc.Answer
	libraryService = svc.Library
	searchService = svc.Search
	checkProviders = svc.Check
	if svc.Taxonomy.Len() > 0 {
		taxonomy = svc.Taxonomy
	}
	if svc.TopK > 0 {
		defaultTopK = svc.TopK
	}
	if svc.ServerAddr != "" {
		serverAddr = svc.ServerAddr
	}
	if svc.Close != nil {
		closeFns = append(closeFns, svc.Close)
	}
}

func closeServices(_ *cobra.Command, _ []string) error {
	var errs []error
	for _, fn := range closeFns {
		errs = append(errs, fn())
	}
	closeFns = nil
	return errors.Join(errs...)
}

func standalone(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[standaloneAnnotation] = "true"
	return cmd
}

// Errors returned when a command needs a service that was not wired.
var (
	errIngestNotConfigured  = errors.New("ingest service not configured")
	errAnswerNotConfigured  = errors.New("answer service not configured")
	errLibraryNotConfigured = errors.New("library service not configured")
	errSearchNotConfigured  = errors.New("search service not configured")
	errCheckNotConfigured   = errors.New("provider check not configured")
)
