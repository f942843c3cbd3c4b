// Package component defines lifecycle-managed parts of the service and a
// Registry that starts them in order and stops them in reverse.
//
// Components optionally implement Describable for the startup summary
// and RouteProvider to list HTTP routes.
package component
