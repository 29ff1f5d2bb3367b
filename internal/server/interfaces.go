package server

// Server is the lifecycle of a listener managed by this package.
type Server interface {
	// RunServer serves requests and blocks until the server stops.
	RunServer()

	// Shutdown stops accepting connections and waits for in-flight
	// requests up to the shutdown timeout.
	Shutdown()
}
