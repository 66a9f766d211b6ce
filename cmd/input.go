package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/pembroke-collections/acquisition-engine/internal/model"
)

// readItem loads item metadata from a JSON or YAML file, chosen by extension.
func readItem(path string) (model.ItemMetadata, error) {
	var item model.ItemMetadata
	data, err := os.ReadFile(path)
	if err != nil {
		return item, eris.Wrapf(err, "read item file %s", path)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &item)
	} else {
		err = json.Unmarshal(data, &item)
	}
	if err != nil {
		return item, eris.Wrapf(err, "parse item file %s", path)
	}
	return item, nil
}

// readCollection loads the collection context. An empty path yields an empty
// context: evaluation without holdings is valid, just strategically blind.
func readCollection(path string) (model.CollectionContext, error) {
	var coll model.CollectionContext
	if path == "" {
		return coll, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return coll, eris.Wrapf(err, "read collection file %s", path)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &coll)
	} else {
		err = json.Unmarshal(data, &coll)
	}
	if err != nil {
		return coll, eris.Wrapf(err, "parse collection file %s", path)
	}
	return coll, nil
}

func isYAML(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

// writeOutput marshals v as indented JSON to path, or stdout when path is
// empty.
func writeOutput(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal output")
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write output %s", path)
	}
	return nil
}
