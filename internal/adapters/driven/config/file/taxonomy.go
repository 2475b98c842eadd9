package file

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brisketrecipe/head-n-heart-gpt/internal/core/domain"
)

// taxonomyFile is the YAML shape of a taxonomy override:
//
//	categories:
//	  - name: Action
//	    competencies: [Results, Execution, Fearless Presenter, Seize Opportunities]
type taxonomyFile struct {
	Categories []struct {
		Name         string   `yaml:"name"`
		Competencies []string `yaml:"competencies"`
	} `yaml:"categories"`
}

// LoadTaxonomy reads a taxonomy override. An empty path returns the
// default taxonomy. The file must describe a complete taxonomy; there is
// no merging with the default.
func LoadTaxonomy(path string) (domain.Taxonomy, error) {
	if strings.TrimSpace(path) == "" {
		return domain.DefaultTaxonomy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}
	return ParseTaxonomy(data)
}

// ParseTaxonomy decodes and validates a YAML taxonomy.
func ParseTaxonomy(data []byte) (domain.Taxonomy, error) {
	var file taxonomyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.Taxonomy{}, fmt.Errorf("%w: parse taxonomy file: %v", domain.ErrInvalidInput, err)
	}

	order := make([]domain.Category, 0, len(file.Categories))
	labels := make(map[domain.Category][]domain.Competency, len(file.Categories))
	for _, c := range file.Categories {
		cat := domain.Category(strings.TrimSpace(c.Name))
		order = append(order, cat)
		for _, l := range c.Competencies {
			labels[cat] = append(labels[cat], domain.Competency(strings.TrimSpace(l)))
		}
	}
	return domain.NewTaxonomy(order, labels)
}
