// Package config reads the server's settings from the environment.
//
// Load is the only place in the program that looks at environment
// variables. It applies a .env file from the working directory first
// when one exists, fills in development defaults for everything else,
// and returns a Config whose groups mirror the features they drive:
// the HTTP listener, the registry backend, the rate limiter, the
// capacity watcher, and logging.
//
// Load never fails on bad values; it falls back to defaults and leaves
// judgement to Validate, which checks the whole Config at once and
// joins every complaint into a single error. Start with:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    ...
//	}
//	if err := cfg.Validate(); err != nil {
//	    ...
//	}
//
// Recognized variables and their defaults:
//
//	SERVER_HOST               - Bind host (default: all interfaces)
//	SERVER_PORT               - HTTP server port (default: 8080)
//	SERVER_READ_TIMEOUT       - Read timeout (default: 15s)
//	SERVER_WRITE_TIMEOUT      - Write timeout (default: 15s)
//	SERVER_SHUTDOWN_TIMEOUT   - Graceful shutdown budget (default: 30s)
//	CORS_ALLOWED_ORIGINS      - Comma-separated origins (default: *)
//	STORE_BACKEND             - "memory" or "surrealdb" (default: memory)
//	SURREALDB_URL             - SurrealDB endpoint (default: ws://localhost:8000)
//	SURREALDB_USER            - Database username (default: root)
//	SURREALDB_PASS            - Database password (default: root)
//	SURREALDB_NAMESPACE       - Namespace (default: mergington)
//	SURREALDB_DATABASE        - Database name (default: activities)
//	RATE_LIMIT_ENABLED        - Toggle throttling (default: true)
//	RATE_LIMIT_RPS            - Requests per second per client (default: 10)
//	RATE_LIMIT_BURST          - Extra burst tokens (default: 20)
//	CAPACITY_WATCH_ENABLED    - Toggle roster watcher (default: true)
//	CAPACITY_WATCH_INTERVAL   - Watcher sweep interval (default: 1m)
//	LOG_LEVEL                 - debug, info, warn, or error (default: info)
package config
