package cmd

import (
	"path"

	"github.com/dbmigrate/oratopg/transform"
)

func loadConfig() (transform.Config, error) {
	return transform.LoadConfig(path.Join(directory, "oratopg.yaml"))
}
