// Package main renders an environment-specific config.yaml for the feedback
// API from the built-in defaults.
package main

import (
	"flag"
	"log"

	"github.com/tsgfeedback/feedback-api/config"
)

func main() {
	env := flag.String("env", string(config.Development), "Target environment: dev, staging or production")
	dir := flag.String("dir", "config", "Directory the file is written to")
	out := flag.String("out", "", "Explicit output path (overrides -dir)")
	force := flag.Bool("force", false, "Overwrite an existing file")
	flag.Parse()

	cfg, err := config.TemplateForEnv(config.EnvType(*env))
	if err != nil {
		log.Fatalf("Failed to build config template: %v", err)
	}

	path := *out
	if path == "" {
		path, err = config.ConfigPathForEnv(*dir, config.EnvType(*env))
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}

	if err := config.WriteConfigFile(path, cfg, *force); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	log.Printf("Wrote %s config to %s", *env, path)
}
