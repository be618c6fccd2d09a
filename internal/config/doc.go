// Package config loads and validates application configuration for the
// delivery analytics service.
//
// Configuration is layered: defaults come from Default, a YAML file
// (config.yaml, or the path named by DP_CONFIG_FILE) may override them,
// and environment variables with the DP_ prefix take final precedence.
//
// Example:
//
//	DP_SERVER_PORT=9090 DP_DATASET_PATH=/data/orders.csv ./delivery-report
package config
