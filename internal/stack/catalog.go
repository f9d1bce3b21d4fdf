package stack

import (
	_ "embed"
	"fmt"

	"github.com/cogstack/cogstack-api/internal/models"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed layers.yaml
var layersYAML []byte

// ErrUnknownLayer is returned for ids outside the catalog
var ErrUnknownLayer = fmt.Errorf("unknown stack layer: %w", apperrors.ErrInvalidInput)

type catalogFile struct {
	Layers []models.Layer `yaml:"layers"`
}

// catalog is decoded once at init; a broken embedded file is a build defect
var catalog = mustParseCatalog(layersYAML)

func mustParseCatalog(data []byte) []models.Layer {
	layers, err := parseCatalog(data)
	if err != nil {
		panic(err)
	}
	return layers
}

func parseCatalog(data []byte) ([]models.Layer, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode layer catalog: %w", err)
	}
	if len(file.Layers) == 0 {
		return nil, fmt.Errorf("layer catalog is empty")
	}

	seen := make(map[string]bool, len(file.Layers))
	for i, l := range file.Layers {
		if l.ID == "" {
			return nil, fmt.Errorf("layer %d has no id", i)
		}
		if seen[l.ID] {
			return nil, fmt.Errorf("duplicate layer id %q", l.ID)
		}
		seen[l.ID] = true
	}
	return file.Layers, nil
}

// Layers returns the catalog in display order. The slice is a copy.
func Layers() []models.Layer {
	out := make([]models.Layer, len(catalog))
	for i, l := range catalog {
		out[i] = cloneLayer(l)
	}
	return out
}

// Lookup finds a layer by id
func Lookup(id string) (models.Layer, bool) {
	for _, l := range catalog {
		if l.ID == id {
			return cloneLayer(l), true
		}
	}
	return models.Layer{}, false
}

func cloneLayer(l models.Layer) models.Layer {
	l.Technologies = append([]string(nil), l.Technologies...)
	return l
}
