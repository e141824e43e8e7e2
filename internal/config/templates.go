package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	KindGrid      = "grid"
	KindGridIUCN  = "grid-iucn"
	KindFractions = "fractions"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindGrid:
		return gridTemplate, nil
	case KindGridIUCN:
		return gridIUCNTemplate, nil
	case KindFractions:
		return fractionsTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o644)
}

const gridTemplate = `label = "EDGE"
input_dir = "outputs/CAPTAIN_2_outputs/edge_pred_20250720"
extension = ".npz"
field = "protection_matrix"
budget = 0.1
output_dir = "."
output_prefix = "CAPTAIN2"
grid_rows = 323
grid_cols = 720
shape_info_file = "grid_shape_info.txt"
csv = false
heatmaps = true
manifest = true
metrics_textfile = ""
`

const gridIUCNTemplate = `label = "IUCN"
input_dir = "outputs/CAPTAIN_2_outputs/iucn_pred_20250720"
extension = ".npz"
field = "protection_matrix"
budget = 0.1
output_dir = "."
output_prefix = "CAPTAIN2"
grid_rows = 323
grid_cols = 720
shape_info_file = "grid_shape_info_IUCN.txt"
csv = false
heatmaps = true
manifest = true
metrics_textfile = ""
`

const fractionsTemplate = `species_dir = "Data/tif files continental"
raster_ext = ".tif"
extension = ".npz"
field = "protected_range_fraction"
output_dir = "."
output_name = "CAPTAIN2_protected_range_fractions_2ndrun"
csv = true
manifest = true
metrics_textfile = ""

[[indices]]
name = "EDGE2"
input_dir = "outputs/CAPTAIN_2_outputs/edge_pred_20250720"

[[indices]]
name = "FUSE"
input_dir = "outputs/CAPTAIN_2_outputs/fuse_pred_20250720"

[[indices]]
name = "IUCN"
input_dir = "outputs/CAPTAIN_2_outputs/iucn_pred_20250720"
`
