package statemachine

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mermaid renders the definition as a Mermaid flowchart. Task states are
// drawn as subroutines, waits as stadiums and choices as diamonds; default
// transitions use dotted arrows.
func (d *Definition) Mermaid() string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    start((start)) --> %s\n", mermaidID(d.StartAt))

	for _, s := range d.States {
		id := mermaidID(s.Name)
		switch s.Type {
		case StateTask:
			fmt.Fprintf(&sb, "    %s[[\"%s <br/> %s\"]]\n", id, s.Name, s.Resource)
		case StateWait:
			fmt.Fprintf(&sb, "    %s([\"%s <br/> %s\"])\n", id, s.Name, s.Duration)
		case StateChoice:
			fmt.Fprintf(&sb, "    %s{\"%s\"}\n", id, s.Name)
		default:
			fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, s.Name)
		}

		for _, r := range s.Choices {
			label := strings.ReplaceAll(r.String(), "\"", "'")
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, label, mermaidID(r.Next))
		}
		if s.Default != "" {
			fmt.Fprintf(&sb, "    %s -. \"default\" .-> %s\n", id, mermaidID(s.Default))
		}
		if s.Next != "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", id, mermaidID(s.Next))
		}
		if s.End {
			fmt.Fprintf(&sb, "    %s --> finish((end))\n", id)
		}
	}
	return sb.String()
}

func mermaidID(name string) string {
	r := strings.NewReplacer(" ", "_", "-", "_", ".", "_", "/", "_")
	return r.Replace(name)
}

// EncodeYAML serializes the definition.
func (d *Definition) EncodeYAML() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	return out, nil
}

// DecodeYAML parses and validates a definition.
func DecodeYAML(raw []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
