// Package config provides configuration loading for the reconcile CLI.
//
// Configuration lives at the working directory root in one of
// reconcile.json, reconcile.toml, reconcile.yaml or reconcile.yml; the first
// one found wins. Missing keys keep their defaults.
//
// # Configuration File Structure
//
//	{
//	  "strategy": "lis",
//	  "strictKeys": false,
//	  "maxDepth": 10000,
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "mirror": {
//	    "addr": ":8080",
//	    "interval": "1s"
//	  },
//	  "metrics": {
//	    "namespace": "reconcile",
//	    "path": "/metrics"
//	  },
//	  "snapshot": {
//	    "dir": "snapshots",
//	    "s3": {
//	      "bucket": "ui-snapshots",
//	      "prefix": "runs/",
//	      "region": "us-east-1"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c := vdom.NewContainer(host, root, vdom.WithOptions(cfg.ToOptions(logger)))
package config
