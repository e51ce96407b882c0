package model

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-diagramviews/pkg/validation"
)

// LoadFile reads, defaults and validates a model from a YAML file.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModelError{Op: "load", Entity: path, Cause: fmt.Errorf("%w: %v", ErrLoadFailed, err)}
	}
	return Parse(data)
}

// Load reads a model from r.
func Load(r io.Reader) (*Model, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, &ModelError{Op: "load", Cause: fmt.Errorf("%w: %v", ErrLoadFailed, err)}
	}
	return Parse(buf.Bytes())
}

// Parse decodes YAML, applies defaults and validates the result. Missing
// sections decode as empty collections.
func Parse(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &ModelError{Op: "parse", Cause: fmt.Errorf("%w: %v", ErrLoadFailed, err)}
	}
	m.ApplyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ApplyDefaults fills ids from map keys and the documented defaults:
// label = id, kind = "service" (lowercased), layout = "LR",
// title = system name and view name joined by a dash.
func (m *Model) ApplyDefaults() {
	m.System.Name = validation.DefaultOr(m.System.Name, DefaultSystemName)
	if m.Nodes == nil {
		m.Nodes = map[string]Node{}
	}
	if m.Views == nil {
		m.Views = map[string]ViewSpec{}
	}

	for id, n := range m.Nodes {
		n.ID = id
		n.Label = validation.DefaultOr(n.Label, id)
		n.Kind = strings.ToLower(strings.TrimSpace(validation.DefaultOr(n.Kind, DefaultKind)))
		m.Nodes[id] = n
	}

	for name, v := range m.Views {
		v.Name = name
		v.Layout = strings.ToUpper(strings.TrimSpace(validation.DefaultOr(v.Layout, DefaultLayout)))
		v.Title = validation.DefaultOr(v.Title, fmt.Sprintf("%s — %s", m.System.Name, name))
		m.Views[name] = v
	}
}

// Validate checks struct tags and the cross-field rules the tags cannot express.
func (m *Model) Validate() error {
	if err := validation.Struct(m); err != nil {
		return &ModelError{Op: "validate", Cause: fmt.Errorf("%w: %v", ErrInvalidModel, err)}
	}

	cv := validation.NewConfigValidator("Model")
	for id := range m.Nodes {
		cv.Required("Nodes[]", strings.TrimSpace(id))
	}
	for _, name := range m.ViewNames() {
		cv.Custom("Views["+name+"]", func() error { return validation.ViewName(name) })
	}
	if err := cv.Validate(); err != nil {
		return &ModelError{Op: "validate", Cause: fmt.Errorf("%w: %w", ErrInvalidModel, err)}
	}
	return nil
}

// ViewNames returns the declared view names in sorted order.
func (m *Model) ViewNames() []string {
	names := make([]string, 0, len(m.Views))
	for name := range m.Views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
