package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Number keeps the integer/double distinction of the model: 5 stays 5
// and 5.0 stays 5.0 in both encodings.
type Number struct {
	text    string
	integer bool
}

func (n Number) String() string { return n.text }

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.text), nil
}

func (n Number) MarshalYAML() (interface{}, error) {
	tag := "!!float"
	if n.integer {
		tag = "!!int"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: n.text}, nil
}

// Param is one named distribution or model parameter.
type Param struct {
	Name  string
	Value interface{}
}

// Params encodes as an object whose keys keep declaration order.
type Params []Param

func (ps Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range ps {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (ps Params) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range ps {
		var val yaml.Node
		if err := val.Encode(p.Value); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name},
			&val,
		)
	}
	return node, nil
}

// Encode writes doc with the default indentation.
func Encode(w io.Writer, doc *Document, format string) error {
	return EncodeIndent(w, doc, format, 2)
}

func EncodeIndent(w io.Writer, doc *Document, format string, indent int) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", indent))
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("JSON encoding error: %w", err)
		}
		return nil
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		if indent > 0 {
			enc.SetIndent(indent)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("YAML encoding error: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown export format %q", format)
}
