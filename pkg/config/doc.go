// Package config loads igexport settings.
//
// Values are layered, later sources winning: built-in defaults, a YAML file
// (.igexport.yaml in the working directory, then ~/.config/igexport/config.yaml,
// then ~/.igexport.yaml), .env files, IGSCRAPER_* environment variables and
// finally command line flags.
//
//	cfg, err := config.Load("", map[string]interface{}{
//		"session-id": "abc123",
//		"output":     "posts.json",
//	})
package config
