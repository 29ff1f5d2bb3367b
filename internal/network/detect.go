package network

import (
	"net"
	"strings"

	"github.com/MKhiriev/go-resto-sync/models"
)

// TypeDetector names the link the device is using.
type TypeDetector interface {
	Detect() models.NetworkType
}

// StaticDetector always reports the same type. It backs the
// SYNC_NETWORK_TYPE override.
type StaticDetector models.NetworkType

func (s StaticDetector) Detect() models.NetworkType {
	return models.NetworkType(s)
}

var linkPrefixes = []struct {
	kind     models.NetworkType
	prefixes []string
}{
	{models.NetworkEthernet, []string{"en", "eth"}},
	{models.NetworkWifi, []string{"wl", "wlan"}},
	{models.NetworkCellular, []string{"ww", "rmnet"}},
}

// InterfaceDetector infers the link type from the names of the interfaces
// that are up. Ethernet beats wifi, wifi beats cellular.
type InterfaceDetector struct {
	interfaces func() ([]net.Interface, error)
}

func NewInterfaceDetector() *InterfaceDetector {
	return &InterfaceDetector{interfaces: net.Interfaces}
}

func (d *InterfaceDetector) Detect() models.NetworkType {
	ifaces, err := d.interfaces()
	if err != nil {
		return models.NetworkUnknown
	}

	var names []string
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		names = append(names, iface.Name)
	}

	return classify(names)
}

func classify(names []string) models.NetworkType {
	for _, link := range linkPrefixes {
		for _, name := range names {
			for _, prefix := range link.prefixes {
				if strings.HasPrefix(name, prefix) {
					return link.kind
				}
			}
		}
	}
	return models.NetworkUnknown
}

// NewTypeDetector returns a [StaticDetector] when override is set and an
// [InterfaceDetector] otherwise.
func NewTypeDetector(override string) TypeDetector {
	if override != "" {
		return StaticDetector(models.NetworkType(override))
	}
	return NewInterfaceDetector()
}
