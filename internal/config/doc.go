// Package config provides configuration parsing for imui programs.
//
// The configuration is stored in imui.json (or imui.yaml) in the working
// directory or one of its parents. This package handles loading, saving,
// and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "session": {
//	    "maxDepth": 32,
//	    "strategy": "scan",
//	    "indexThreshold": 64,
//	    "duplicates": "warn"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "imui"
//	  },
//	  "inspect": {
//	    "enabled": false,
//	    "address": "localhost:7070"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "demo": {
//	    "todoDB": "todo.db"
//	  }
//	}
//
// The same keys are accepted in YAML.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	sess := imui.NewSession(tk, root, ui, cfg.SessionOptions()...)
package config
