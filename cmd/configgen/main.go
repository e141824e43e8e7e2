package main

import (
	"flag"
	"log"

	"github.com/danmuck/captainctl/internal/config"
)

func main() {
	kind := flag.String("kind", config.KindGrid, "config kind: grid|grid-iucn|fractions")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "", "config path for validation (defaults to <kind>.toml)")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = defaultPath(*kind)
		}
		if err := validateFile(*kind, path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated %s config at %s", *kind, path)
		return
	}

	target := *output
	if target == "" {
		target = defaultPath(*kind)
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, target)
}

func defaultPath(kind string) string {
	return kind + ".toml"
}

func validateFile(kind, path string) error {
	switch kind {
	case config.KindGrid, config.KindGridIUCN:
		_, err := config.LoadGridJob(path)
		return err
	case config.KindFractions:
		_, err := config.LoadFractionJob(path)
		return err
	default:
		_, err := config.Template(kind)
		return err
	}
}
