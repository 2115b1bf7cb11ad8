// Package config provides local-first configuration for the pricing page.
//
// Configuration lives in the project's .waypoints/ directory:
//
//	.waypoints/
//	├── config.json        # settings (committed to git)
//	├── .gitignore         # keeps quote.db and logs out of git
//	├── quote.db           # saved quote (sqlite)
//	└── waypoints.log      # JSON log
//
// config.json holds flat key-value settings:
//
//	{
//	  "catalog_path": "catalog.yaml",
//	  "watch_catalog": true,
//	  "store_path": ".waypoints/quote.db",
//	  "log_path": ".waypoints/waypoints.log",
//	  "debug": false,
//	  "theme": "waypoints",
//	  "touch": false,
//	  "frame_interval_ms": 16
//	}
//
// Path and theme values may reference environment variables with $VAR or
// ${VAR}. Relative paths resolve against the project directory via
// Manager.Path.
//
// Example usage:
//
//	manager := config.NewManager(".")
//	if err := manager.Load(); err != nil {
//		log.Fatal(err)
//	}
//	cfg := manager.Get()
//	catalog := manager.Path(cfg.CatalogPath)
//
//	manager.Set("theme", "dark")
package config
