// Package dump renders a resolved sequence for people and tools: Text
// prints fixed width tables, YAML emits a machine readable document.
package dump
