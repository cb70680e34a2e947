// Package runfile parses the YAML run definition that declares a
// pipeline's sources and transform configuration. Mapping blocks keep
// their document order, which fixes the column order of the output.
package runfile

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/tabfuse/internal/core"
	"github.com/JonMunkholm/tabfuse/internal/schema"
)

// DefaultOutput is the output filename used when the run file omits one.
const DefaultOutput = "consolidated_output.csv"

// RunFile is a validated, resolved run definition ready to hand to the
// pipeline.
type RunFile struct {
	Output  string
	Sources []ResolvedSource
	Options core.Options
}

// ResolvedSource is one declared source with its mapping resolved,
// either inline or from the schema catalog.
type ResolvedSource struct {
	Name    string
	File    string
	Mapping core.Mapping
}

// document is the raw YAML shape before validation.
type document struct {
	Output    string            `yaml:"output"`
	Sources   []sourceSection   `yaml:"sources"`
	Transform *transformSection `yaml:"transform"`
}

type sourceSection struct {
	Name    string       `yaml:"name"`
	File    string       `yaml:"file"`
	Layout  string       `yaml:"layout"`
	Mapping orderedPairs `yaml:"mapping"`
}

type transformSection struct {
	DateColumns      []string          `yaml:"date_columns"`
	RemoveDuplicates *bool             `yaml:"remove_duplicates"`
	FillMissing      map[string]string `yaml:"fill_missing_values"`
	FinalColumns     []string          `yaml:"final_columns"`
	Filters          []filterSection   `yaml:"filters"`
	Aggregate        *aggregateSection `yaml:"aggregate"`
}

type filterSection struct {
	Column string   `yaml:"column"`
	Equals *string  `yaml:"equals"`
	Min    *float64 `yaml:"min"`
	Max    *float64 `yaml:"max"`
}

type aggregateSection struct {
	GroupBy string            `yaml:"group_by"`
	Columns map[string]string `yaml:"columns"`
}

// orderedPairs is a YAML mapping decoded with document order preserved.
// yaml.v3 decodes plain maps into Go maps, which lose order; decoding
// from the node keeps the author's column order intact.
type orderedPairs []pair

type pair struct {
	key   string
	value string
}

func (o *orderedPairs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("mapping must be a YAML map")
	}
	pairs := make(orderedPairs, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		pairs = append(pairs, pair{
			key:   node.Content[i].Value,
			value: node.Content[i+1].Value,
		})
	}
	*o = pairs
	return nil
}

// Load reads and validates a run file, resolving layout references
// against the schema catalog.
func Load(path string) (*RunFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse validates a run document: at least one source, unique source
// names, unique mapping keys, and known aggregation functions.
// remove_duplicates defaults to true when omitted.
func Parse(data []byte) (*RunFile, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse run file: %w", err)
	}

	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("no sources defined")
	}

	rf := &RunFile{
		Output:  doc.Output,
		Options: core.DefaultOptions(),
	}
	if rf.Output == "" {
		rf.Output = DefaultOutput
	}

	seen := make(map[string]bool)
	for i, src := range doc.Sources {
		if src.Name == "" {
			return nil, fmt.Errorf("source %d: name is required", i+1)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("duplicate source name: %s", src.Name)
		}
		seen[src.Name] = true

		resolved, err := resolveSource(src)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", src.Name, err)
		}
		rf.Sources = append(rf.Sources, resolved)
	}

	if doc.Transform != nil {
		opts, err := buildOptions(doc.Transform)
		if err != nil {
			return nil, err
		}
		rf.Options = opts
	}

	return rf, nil
}

func resolveSource(src sourceSection) (ResolvedSource, error) {
	out := ResolvedSource{Name: src.Name, File: src.File}

	switch {
	case src.Layout != "" && len(src.Mapping) > 0:
		return out, fmt.Errorf("layout and mapping are mutually exclusive")
	case src.Layout != "":
		l, ok := schema.Get(src.Layout)
		if !ok {
			return out, fmt.Errorf("unknown layout: %s (known layouts: %s)",
				src.Layout, strings.Join(schema.Names(), ", "))
		}
		out.Mapping = l.Mapping
		if out.File == "" {
			out.File = l.Filename
		}
	case len(src.Mapping) > 0:
		keys := make(map[string]bool, len(src.Mapping))
		m := make(core.Mapping, 0, len(src.Mapping))
		for _, p := range src.Mapping {
			if keys[p.key] {
				return out, fmt.Errorf("duplicate mapping key: %s", p.key)
			}
			keys[p.key] = true
			m = append(m, core.ColumnRename{From: p.key, To: p.value})
		}
		out.Mapping = m
	default:
		return out, fmt.Errorf("mapping or layout is required")
	}

	if out.File == "" {
		return out, fmt.Errorf("file is required")
	}
	return out, nil
}

func buildOptions(t *transformSection) (core.Options, error) {
	opts := core.Options{
		DateColumns:      t.DateColumns,
		RemoveDuplicates: true,
		FillMissing:      t.FillMissing,
		FinalColumns:     t.FinalColumns,
	}
	if t.RemoveDuplicates != nil {
		opts.RemoveDuplicates = *t.RemoveDuplicates
	}

	for _, f := range t.Filters {
		if f.Column == "" {
			return opts, fmt.Errorf("filter: column is required")
		}
		opts.Filters = append(opts.Filters, core.FilterRule{
			Column: f.Column,
			Equals: f.Equals,
			Min:    f.Min,
			Max:    f.Max,
		})
	}

	if t.Aggregate != nil {
		if t.Aggregate.GroupBy == "" {
			return opts, fmt.Errorf("aggregate: group_by is required")
		}
		for col, fn := range t.Aggregate.Columns {
			switch fn {
			case "count", "sum", "mean", "min", "max":
			default:
				return opts, fmt.Errorf("unknown aggregation %q for column %s", fn, col)
			}
		}
		opts.Aggregate = &core.AggregateRule{
			GroupBy: t.Aggregate.GroupBy,
			Columns: t.Aggregate.Columns,
		}
	}

	return opts, nil
}
