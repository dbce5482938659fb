// Package node defines the canvas data model: typed nodes with a mutable
// property bag, connectors with start/end bindings, and the per-run
// execution status of a node.
//
// Only text and audio_input nodes carry a text signal. Kind.TextProperty
// names the property that holds it.
package node
