// Package config defines the format-agnostic description of a canvas flow
// and the Loader interface that format-specific packages implement.
//
// A config.Flow is what a loader produces: nodes with raw kind names and
// property bags, and connectors naming their start and end nodes by id.
// Populate validates it and writes it into a topology store, which is the
// single source of truth at run time. Concrete loaders live in
// internal/hcl_adapter (HCL files) and internal/document (canvas documents).
package config
