package export

import (
	"fmt"
	"os"

	"github.com/danmuck/captainctl/internal/config"
)

// WriteShapeInfo records the grid layout needed to fold PUIDs back into a matrix.
func WriteShapeInfo(path string, grid config.GridShape) error {
	content := fmt.Sprintf(
		"Original grid shape: %d rows x %d columns\nTotal grid cells: %d\nFlattening order: row-major (C-style)\n",
		grid.Rows, grid.Cols, grid.Cells())
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write shape info: %w", err)
	}
	return nil
}
