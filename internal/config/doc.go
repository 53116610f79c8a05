// Package config loads livetree configuration.
//
// The configuration lives in livetree.json, livetree.yaml or livetree.yml,
// found in the working directory or one of its parents. Every field is
// optional.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "events": {
//	    "include": ["visibilitychange"],
//	    "exclude": ["mousemove"],
//	    "passive": ["scroll"]
//	  },
//	  "reconcile": {
//	    "disposeOnRemove": true
//	  },
//	  "inspect": {
//	    "addr": ":7070",
//	    "interval": "500ms"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "livetree"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	g := element.NewGroup(doc, rt, cfg.GroupOptions()...)
package config
