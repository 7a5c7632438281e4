// Package types defines the entity types, configuration, pagination helpers
// and standard errors shared by the taskboard store and HTTP layers.
package types
