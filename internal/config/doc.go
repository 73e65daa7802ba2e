// Package config loads the starter's configuration.
//
// The configuration is stored in starter.json at the project root. Every
// field has a default, so the file is optional; environment variables
// override the file.
//
// # Configuration File Structure
//
//	{
//	  "name": "starter",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 3000,
//	    "basePath": "/app",
//	    "publicOrigin": "https://example.com",
//	    "shutdownTimeout": "10s"
//	  },
//	  "session": {
//	    "readTimeout": "60s",
//	    "heartbeatInterval": "30s",
//	    "maxEventQueue": 64,
//	    "submitDelay": "800ms"
//	  },
//	  "metrics": { "enabled": true, "path": "/metrics", "namespace": "starter" },
//	  "tracing": { "enabled": true, "tracerName": "starter" },
//	  "deploy": {
//	    "bucket": "my-site",
//	    "region": "eu-west-1",
//	    "prefix": "app/",
//	    "endpoint": ""
//	  },
//	  "debug": false
//	}
//
// # Environment
//
//	STARTER_HOST, STARTER_PORT, STARTER_BASE_PATH, STARTER_PUBLIC_ORIGIN,
//	STARTER_DEBUG, STARTER_DEPLOY_BUCKET, STARTER_DEPLOY_REGION
//
// # Usage
//
//	cfg, err := config.LoadOrDefault(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.LookupEnv)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
