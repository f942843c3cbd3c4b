// Package bootstrap runs a service's lifecycle: it validates config,
// initializes logging, starts registered components in order, runs hooks,
// prints a startup summary and shuts everything down on SIGINT/SIGTERM.
//
// Run is for the long-running HTTP service; RunTask is for the one-shot
// CLI mode and cancels the task on a signal.
package bootstrap
