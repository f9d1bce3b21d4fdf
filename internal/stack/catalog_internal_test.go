package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCatalog_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not yaml", data: "layers: ["},
		{name: "empty", data: "layers: []"},
		{name: "missing id", data: "layers:\n  - name: Edge\n"},
		{name: "duplicate id", data: "layers:\n  - id: edge\n  - id: edge\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
