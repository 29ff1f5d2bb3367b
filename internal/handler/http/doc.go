// Package http is the REST transport of the reference sync server.
//
// It exposes the batch endpoint used by device agents together with the
// health and version checks. Bearer authentication, trace ids, access
// logging and gzip are handled here before a request reaches the service
// layer.
package http
