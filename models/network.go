package models

import "time"

// NetworkType is the kind of link the device is currently using.
type NetworkType string

const (
	NetworkWifi     NetworkType = "wifi"
	NetworkCellular NetworkType = "cellular"
	NetworkEthernet NetworkType = "ethernet"
	NetworkNone     NetworkType = "none"
	NetworkUnknown  NetworkType = "unknown"
)

// NetworkStatus is a connectivity observation.
type NetworkStatus struct {
	Online bool        `json:"online"`
	Type   NetworkType `json:"type"`
	At     time.Time   `json:"at"`
}
