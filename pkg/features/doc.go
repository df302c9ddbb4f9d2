// Package features groups higher-level building blocks on top of the
// reactive engine in pkg/reactive.
//
// # Subsystems
//
//   - resource: Async data loading with loading/error/ready states,
//     written back to the runtime through its dispatch queue
//
// Each subsystem is in its own sub-package:
//
//	import "github.com/vango-dev/signals/pkg/features/resource"
package features
