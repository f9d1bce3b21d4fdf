package models

// Layer is one tier of the cognitive stack diagram
type Layer struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Color        string   `json:"color" yaml:"color"`
	Technologies []string `json:"technologies" yaml:"technologies"`
	Description  string   `json:"description" yaml:"description"`
}

// LayersResponse is returned by GET /api/v1/stack/layers
type LayersResponse struct {
	Layers   []Layer `json:"layers"`
	ActiveID string  `json:"activeId,omitempty"`
}

// LayerResponse is returned by GET /api/v1/stack/layers/:id
type LayerResponse struct {
	Layer Layer `json:"layer"`
}
