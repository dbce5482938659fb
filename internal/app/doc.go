// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle, decoupled from any
// specific entrypoint like a CLI or a canvas host.
//
// NewApp loads a flow into the live topology store, picks the node state
// store and the dispatchers, and registers the node actions. Run triggers
// the start node once; Trigger lets a host start further runs on the same
// live graph.
package app
