package cli

import (
	"fmt"
	"time"

	"github.com/bndr/gotabulate"

	"github.com/toyz/accessorgen/internal/classmap"
)

// ClassMapHeaders are the columns of the class map table
var ClassMapHeaders = []string{"Class", "Path", "Run", "Generated"}

// LoadClassMap reads the class map of config, sorted by class name
func LoadClassMap(config Config) ([]classmap.Entry, error) {
	return classmap.NewFileStore(config.GeneratedFilesDirectory).Snapshot()
}

// RenderClassMap formats entries as a grid table
func RenderClassMap(entries []classmap.Entry) string {
	if len(entries) == 0 {
		return "No classes published\n"
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []interface{}{
			entry.Name,
			entry.Path,
			entry.RunID,
			entry.GeneratedAt.UTC().Format(time.RFC3339),
		})
	}

	t := gotabulate.Create(rows)
	t.SetHeaders(ClassMapHeaders)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("%s\n", t.Render("grid"))
}
