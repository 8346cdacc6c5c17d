package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gassim/internal/gas"
)

type ExportData struct {
	ID              string         `json:"id"`
	Seed            int64          `json:"seed"`
	ContainerRadius float64        `json:"container_radius"`
	Events          int            `json:"events"`
	Series          []gas.Snapshot `json:"series"`
}

// ExportJSON writes a stored run as a single JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, series []gas.Snapshot) error {
	data := ExportData{
		ID:              meta.ID,
		Seed:            meta.Seed,
		ContainerRadius: meta.ContainerRadius,
		Events:          meta.Events,
		Series:          series,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONStdout(meta *RunMetadata, series []gas.Snapshot) error {
	return ExportJSON(os.Stdout, meta, series)
}
