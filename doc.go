// Package gatekit implements the access-control pipeline for a small
// multi-resource JSON API: credential and token authentication, resource
// loading, and ownership/admin permission checks, composed into
// short-circuiting per-endpoint pipelines.
//
// The package is transport agnostic. Handlers in httpapi compose pipelines
// from the stage constructors here and translate stage errors into JSON
// responses; stores and the signing secret are injected at construction,
// never read from package state.
package gatekit
