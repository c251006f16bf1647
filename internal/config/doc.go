// Package config loads estudos.json.
//
// A missing file means defaults. After the file is read, ESTUDOS_*
// environment variables override it; a .env file next to estudos.json is
// loaded into the environment first.
//
// # Configuration File Structure
//
//	{
//	  "name": "Estudos",
//	  "basePath": "/",
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080,
//	    "readTimeout": "15s",
//	    "writeTimeout": "15s"
//	  },
//	  "log": {"level": "info", "format": "json"},
//	  "modules": {
//	    "source": "s3",
//	    "s3": {"bucket": "estudos-content", "prefix": "modules/", "region": "sa-east-1"}
//	  },
//	  "metrics": {"enabled": true},
//	  "tracing": {"enabled": true}
//	}
//
// # Usage
//
//	cfg, err := config.LoadWithEnv(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
