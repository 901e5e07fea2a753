// Package app wires the loader and the generator into the lowcode build:
// model files are loaded into finalized modules, then written as Go packages.
// In watch mode the build reruns whenever a model file changes.
package app
