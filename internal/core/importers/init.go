// Package importers registers all importer definitions with the core registry.
// Import this package to ensure all importers are registered.
package importers

// This file exists to provide a single import point.
// Each importer file uses init() to register its importer.
