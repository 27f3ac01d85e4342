package corpus

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Freekyn/Promptin/internal/cache"
	"github.com/Freekyn/Promptin/internal/framework"
)

// listField accepts either a sequence or a comma-separated string.
type listField []string

func (l *listField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var values []string
		if err := node.Decode(&values); err != nil {
			return err
		}
		*l = values
	case yaml.ScalarNode:
		*l = splitList(node.Value)
	default:
		return fmt.Errorf("line %d: expected list or string", node.Line)
	}
	return nil
}

func (l *listField) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err == nil {
		*l = values
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected list or string: %w", err)
	}
	*l = splitList(s)
	return nil
}

// seedRecord is the on-disk shape of a curated framework.
type seedRecord struct {
	ID              string    `yaml:"id" json:"id"`
	Name            string    `yaml:"name" json:"name"`
	Category        string    `yaml:"category" json:"category"`
	Description     string    `yaml:"description" json:"description"`
	BasePrompt      string    `yaml:"base_prompt" json:"base_prompt"`
	ToneModifiers   listField `yaml:"tone_modifiers" json:"tone_modifiers"`
	RoleVariations  listField `yaml:"role_variations" json:"role_variations"`
	OutputFormats   listField `yaml:"output_formats" json:"output_formats"`
	Platforms       listField `yaml:"platforms" json:"platforms"`
	Models          listField `yaml:"models" json:"models"`
	DomainTags      listField `yaml:"domain_tags" json:"domain_tags"`
	Tags            listField `yaml:"tags" json:"tags"`
	ComplexityLevel string    `yaml:"complexity_level" json:"complexity_level"`
	TokenEstimate   int       `yaml:"token_estimate" json:"token_estimate"`
}

type seedFile struct {
	Frameworks []seedRecord `yaml:"frameworks" json:"frameworks"`
}

// SeedLoader reads curated frameworks from YAML or JSON files.
type SeedLoader struct {
	fs afero.Fs
}

// NewSeedLoader creates a loader over fs. Use afero.NewOsFs() for real
// files and afero.NewMemMapFs() in tests.
func NewSeedLoader(fs afero.Fs) *SeedLoader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &SeedLoader{fs: fs}
}

// Load parses path. Records missing a name or base prompt are skipped and
// counted.
func (l *SeedLoader) Load(path string) ([]*framework.Entry, int, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, 0, fmt.Errorf("read seed file: %w", err)
	}

	var file seedFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			// a bare array is accepted too
			if arrErr := json.Unmarshal(data, &file.Frameworks); arrErr != nil {
				return nil, 0, fmt.Errorf("parse seed JSON: %w", err)
			}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, 0, fmt.Errorf("parse seed YAML: %w", err)
		}
	default:
		return nil, 0, fmt.Errorf("unsupported seed format %q", filepath.Ext(path))
	}

	entries := make([]*framework.Entry, 0, len(file.Frameworks))
	skipped := 0
	for _, r := range file.Frameworks {
		e := r.toEntry()
		if framework.ValidateEntry(e) != nil {
			skipped++
			continue
		}
		entries = append(entries, e)
	}
	return entries, skipped, nil
}

// Export writes entries as a YAML seed file.
func (l *SeedLoader) Export(path string, entries []*framework.Entry) error {
	out := struct {
		Frameworks []*framework.Entry `yaml:"frameworks"`
	}{Frameworks: entries}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("marshal seed: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := l.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create seed directory: %w", err)
		}
	}
	return afero.WriteFile(l.fs, path, data, 0o644)
}

func (r seedRecord) toEntry() *framework.Entry {
	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = "General"
	}
	tags := r.DomainTags
	if len(tags) == 0 {
		tags = r.Tags
	}
	tokens := r.TokenEstimate
	if tokens <= 0 {
		tokens = (len(r.BasePrompt) + 3) / 4
	}
	id := strings.TrimSpace(r.ID)
	if id == "" && r.Name != "" {
		id = "fw-" + cache.Hash(strings.ToLower(strings.TrimSpace(r.Name)))[:12]
	}
	return &framework.Entry{
		ID:              id,
		Name:            strings.TrimSpace(r.Name),
		Category:        category,
		Description:     strings.TrimSpace(r.Description),
		BasePrompt:      r.BasePrompt,
		ToneModifiers:   framework.Dedupe(r.ToneModifiers),
		RoleVariations:  framework.Dedupe(r.RoleVariations),
		OutputFormats:   framework.Dedupe(r.OutputFormats),
		Platforms:       framework.Dedupe(r.Platforms),
		Models:          framework.Dedupe(r.Models),
		DomainTags:      framework.Dedupe(tags),
		ComplexityLevel: framework.ParseComplexity(r.ComplexityLevel),
		TokenEstimate:   tokens,
		Source:          framework.SourceCurated,
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
