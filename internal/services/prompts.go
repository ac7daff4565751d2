package services

import (
	_ "embed"
	"fmt"

	"github.com/tmc/langchaingo/prompts"
	"gopkg.in/yaml.v3"
)

const (
	promptAnalyzeJD        = "analyze_job_description"
	promptTailorResume     = "tailor_resume"
	promptAnalyzeRejection = "analyze_rejection"
	promptSuggestJobs      = "suggest_jobs"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptSpec struct {
	Inputs   []string `yaml:"inputs"`
	Template string   `yaml:"template"`
}

// promptCatalog is parsed once at init; a broken prompts.yaml is a build
// defect, so it panics.
var promptCatalog = mustLoadPrompts(promptsYAML)

func loadPrompts(data []byte) (map[string]prompts.PromptTemplate, error) {
	var specs map[string]promptSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parsing prompts: %w", err)
	}

	catalog := make(map[string]prompts.PromptTemplate, len(specs))
	for name, spec := range specs {
		if spec.Template == "" {
			return nil, fmt.Errorf("prompt %q has no template", name)
		}
		catalog[name] = prompts.NewPromptTemplate(spec.Template, spec.Inputs)
	}

	for _, name := range []string{promptAnalyzeJD, promptTailorResume, promptAnalyzeRejection, promptSuggestJobs} {
		if _, ok := catalog[name]; !ok {
			return nil, fmt.Errorf("prompt %q is missing", name)
		}
	}
	return catalog, nil
}

func mustLoadPrompts(data []byte) map[string]prompts.PromptTemplate {
	catalog, err := loadPrompts(data)
	if err != nil {
		panic(err)
	}
	return catalog
}
