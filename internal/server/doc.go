// Package server runs HTTP listeners with graceful shutdown: the sync
// server API and the loopback device hook of the agent.
package server
