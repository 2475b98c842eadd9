package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/ports/driven"
	"github.com/brisketrecipe/head-n-heart-gpt/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// errPlaceholders marks a prompt file whose format verbs do not match what
// the classifier passes to fmt.Sprintf.
var errPlaceholders = errors.New("wrong number of %s placeholders")

// PromptStore serves the classifier, summary and answer prompts from
// <dir>/<name>.txt, seeding missing files from driven.DefaultPrompts.
//
// All prompts are read together on the first Load and kept until Reload.
// A file that is empty, unreadable or breaks its placeholder contract is
// replaced by the built-in default and a warning is logged, so a bad edit
// never reaches the model as a malformed system prompt.
type PromptStore struct {
	dir string

	mu      sync.Mutex
	prompts map[string]string
}

// NewPromptStore creates a store rooted at dir, or ~/.heartgpt/prompts when
// dir is empty. No files are touched until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".heartgpt", "prompts")
	}
	return &PromptStore{dir: dir}, nil
}

// Load returns the named prompt.
func (s *PromptStore) Load(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prompts == nil {
		s.prompts = s.readAll()
	}
	prompt, ok := s.prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return prompt, nil
}

// Reload drops the loaded prompts; the next Load reads the directory again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.prompts = nil
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) readAll() map[string]string {
	defaults := driven.DefaultPrompts()
	if err := s.seed(defaults); err != nil {
		logger.Warn("Prompt directory %s unavailable, using built-in prompts: %v", s.dir, err)
		return defaults
	}

	prompts := make(map[string]string, len(defaults))
	for name, fallback := range defaults {
		prompt, err := s.read(name)
		if err != nil {
			logger.Warn("Prompt %s: %v; using built-in prompt", name, err)
			prompt = fallback
		}
		prompts[name] = prompt
	}
	return prompts
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("file is empty")
	}
	if want := driven.PromptPlaceholders(name); want > 0 {
		if got := countVerbs(prompt); got != want {
			return "", fmt.Errorf("%w: got %d, want %d", errPlaceholders, got, want)
		}
	}
	return prompt, nil
}

// seed creates the directory, writes defaults for missing prompt files and
// the README. Existing files are left alone.
func (s *PromptStore) seed(defaults map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}

	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := writeIfMissing(s.path(name), defaults[name]); err != nil {
			return fmt.Errorf("seed prompt %q: %w", name, err)
		}
	}
	return writeIfMissing(filepath.Join(s.dir, "README.md"), promptReadme(names))
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content+"\n"), 0o600)
}

// countVerbs counts fmt verbs in a template, ignoring escaped "%%".
func countVerbs(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			continue
		}
		if i+1 < len(s) && s[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}

func promptReadme(names []string) string {
	var b strings.Builder
	b.WriteString("# heartgpt prompts\n\n")
	b.WriteString("System prompts sent to the language model. Edit a file to change how\n")
	b.WriteString("chunks are tagged, summarised and answered; delete it to restore the\n")
	b.WriteString("default on the next run.\n\n")
	for _, name := range names {
		switch driven.PromptPlaceholders(name) {
		case 0:
			fmt.Fprintf(&b, "- `%s.txt` is sent as written.\n", name)
		default:
			fmt.Fprintf(&b, "- `%s.txt` must keep exactly one `%%s`, replaced with the competency list.\n", name)
		}
	}
	b.WriteString("\nA file that is empty or has the wrong placeholders is ignored and the\n")
	b.WriteString("built-in prompt is used instead. Write a literal percent sign as `%%`\n")
	b.WriteString("in the classifier prompts.\n")
	return b.String()
}
