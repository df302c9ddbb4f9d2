// Package config provides configuration loading for the signals tool.
//
// Configuration comes from, in increasing priority: built-in defaults, a
// signals.yaml (or signals.json) file, SIGNALS_ environment variables and
// command line flags bound by the caller. Loading goes through
// github.com/spf13/viper.
//
// # Configuration File Structure
//
//	runtime:
//	  max_passes: 100
//	  manual_flush: false
//	  dispatch_buffer: 256
//	log:
//	  level: info      # debug, info, warn, error
//	  format: text     # text or json
//	metrics:
//	  addr: ":9090"    # empty disables /metrics
//	  namespace: signals
//	tracing:
//	  enabled: false
//	  service_name: signals
//	fetch:
//	  url: https://www.amiiboapi.com/api/amiibo/?name=mario
//	  timeout: 10s
//	  retries: 2
//	  retry_delay: 500ms
//
// # Environment
//
// Every key can be overridden with its upper-cased path, dots replaced by
// underscores: SIGNALS_LOG_LEVEL=debug, SIGNALS_RUNTIME_MAX_PASSES=50.
package config
