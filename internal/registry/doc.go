// Package registry provides the central "glue" for the module system.
//
// The Registry maps each node kind to the compiled Go action that runs when a
// node of that kind is triggered. Modules populate it at startup; Validate
// then checks that every kind has an action, so a flow can never reach a
// node the application does not know how to run.
package registry
