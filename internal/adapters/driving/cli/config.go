package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/adapters/driven/config/file"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

var configCmd = standalone(&cobra.Command{
	Use:   "config",
	Short: "Show or change config.toml",
	Long: `Reads and writes the TOML config file in the config directory.
Keys use dot notation, for example llm.model or pipeline.top_k.
Environment variables such as OPENAI_API_KEY apply only where the file
leaves a value unset.`,
})

var configShowCmd = standalone(&cobra.Command{
	Use:   "show",
	Short: "Print every configured key",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
})

var configSetCmd = standalone(&cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config key",
	Long: `Sets one key and saves the file. Integers, decimals and true/false
are stored as typed values; anything else is stored as a string.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
})

var configPathCmd = standalone(&cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
})

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func openConfig() (*file.ConfigStore, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return store, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	store, err := openConfig()
	if err != nil {
		return err
	}

	keys := store.Keys()
	if len(keys) == 0 {
		cmd.Printf("No settings in %s; defaults apply.\n", store.Path())
		return nil
	}
	sort.Strings(keys)

	cmd.Printf("# %s\n", store.Path())
	for _, key := range keys {
		v, _ := store.Get(key)
		value := fmt.Sprint(v)
		if isSecretKey(key) {
			value = maskAPIKey(value)
		}
		cmd.Printf("%s = %s\n", key, value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])
	if key == "" {
		return fmt.Errorf("%w: key is empty", domain.ErrInvalidInput)
	}

	store, err := openConfig()
	if err != nil {
		return err
	}
	if err := store.Set(key, parseValue(args[1])); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	shown := args[1]
	if isSecretKey(key) {
		shown = maskAPIKey(shown)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := openConfig()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

// parseValue keeps numbers and booleans typed in the TOML file.
func parseValue(raw string) any {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	return raw
}

func isSecretKey(key string) bool {
	key = strings.ToLower(key)
	for _, marker := range []string{"api_key", "token", "dsn", "password"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// configuredTaxonomy returns the taxonomy named by taxonomy_file, or the
// default when none is set.
func configuredTaxonomy() (domain.Taxonomy, error) {
	store, err := openConfig()
	if err != nil {
		return domain.Taxonomy{}, err
	}
	path := store.GetString(file.KeyTaxonomyFile)
	if path == "" {
		return domain.DefaultTaxonomy(), nil
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(store.Path()), path)
	}
	return file.LoadTaxonomy(path)
}
