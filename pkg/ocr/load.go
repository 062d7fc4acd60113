package ocr

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	yaml "go.yaml.in/yaml/v3"
)

// Document is a set of elements read from a file, with the page size when
// the source carries one.
type Document struct {
	Page     PageSize  `json:"page" yaml:"page"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// DecodeJSON accepts either a Vision images:annotate response, a Document,
// or a bare list of elements.
func DecodeJSON(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Document{}, errors.New("empty input")
	}

	if trimmed[0] == '[' {
		var elements []Element
		if err := json.Unmarshal(trimmed, &elements); err != nil {
			return Document{}, errors.Wrap(err, "failed to decode element list")
		}
		return finish(Document{Elements: elements}), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return Document{}, errors.Wrap(err, "failed to decode json input")
	}

	if _, ok := probe["responses"]; ok {
		resp, err := ParseVisionJSON(trimmed)
		if err != nil {
			return Document{}, err
		}
		elements, page := resp.Elements()
		return Document{Page: page, Elements: elements}, nil
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Document{}, errors.Wrap(err, "failed to decode document")
	}
	return finish(doc), nil
}

// DecodeYAML accepts a Document or a bare list of elements.
func DecodeYAML(data []byte) (Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return Document{}, errors.Wrap(err, "failed to decode yaml input")
	}
	if len(node.Content) == 0 {
		return Document{}, errors.New("empty input")
	}

	var doc Document
	if node.Content[0].Kind == yaml.SequenceNode {
		if err := node.Content[0].Decode(&doc.Elements); err != nil {
			return Document{}, errors.Wrap(err, "failed to decode element list")
		}
	} else if err := node.Content[0].Decode(&doc); err != nil {
		return Document{}, errors.Wrap(err, "failed to decode document")
	}
	return finish(doc), nil
}

// finish cleans text and fills missing positions from boxes so hand-written
// inputs may give either one.
func finish(doc Document) Document {
	for i, e := range doc.Elements {
		e.Text = CleanText(e.Text)
		if e.X == 0 && e.Y == 0 && e.Box.Area() > 0 {
			e.X, e.Y = e.Box.Center()
		}
		if e.Box == (Box{}) {
			e.Box = Box{X: e.X, Y: e.Y}
		}
		doc.Elements[i] = e
	}
	return doc
}
