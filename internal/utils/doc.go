// Package utils hosts cross-cutting helpers shared by the CLI: the zap logger
// factory, the viper-backed configuration loader, and the mutex-guarded
// flushing writer used to keep concurrent table rows intact.
package utils
