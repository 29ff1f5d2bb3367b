package models

import "time"

// ConflictPolicy selects which side wins when both the device and the server
// changed the same record.
type ConflictPolicy string

const (
	PreferLocal  ConflictPolicy = "prefer_local"
	PreferServer ConflictPolicy = "prefer_server"
)

// CollectionToggles enables or disables queueing per collection.
type CollectionToggles struct {
	Orders    bool `toml:"orders" json:"orders"`
	Inventory bool `toml:"inventory" json:"inventory"`
	Staff     bool `toml:"staff" json:"staff"`
	Menu      bool `toml:"menu" json:"menu"`
}

// Enabled reports whether queueing is enabled for entity.
func (c CollectionToggles) Enabled(entity EntityType) bool {
	switch entity {
	case EntityOrders:
		return c.Orders
	case EntityInventory:
		return c.Inventory
	case EntityStaff:
		return c.Staff
	case EntityMenu:
		return c.Menu
	}
	return false
}

// SyncPreferences are the user-facing sync settings. They are loaded at
// startup, persisted on change and observed by the background scheduler.
type SyncPreferences struct {
	AutoSync            bool              `toml:"auto_sync" json:"auto_sync"`
	SyncIntervalMinutes int               `toml:"sync_interval_minutes" json:"sync_interval_minutes"`
	WifiOnly            bool              `toml:"wifi_only" json:"wifi_only"`
	BackgroundSync      bool              `toml:"background_sync" json:"background_sync"`
	ConflictResolution  ConflictPolicy    `toml:"conflict_resolution" json:"conflict_resolution"`
	QueueActionsEnabled bool              `toml:"queue_actions_enabled" json:"queue_actions_enabled"`
	Collections         CollectionToggles `toml:"collections" json:"collections"`
}

// DefaultSyncPreferences returns the preferences used when nothing was saved
// yet.
func DefaultSyncPreferences() SyncPreferences {
	return SyncPreferences{
		AutoSync:            true,
		SyncIntervalMinutes: 15,
		WifiOnly:            false,
		BackgroundSync:      true,
		ConflictResolution:  PreferServer,
		QueueActionsEnabled: true,
		Collections: CollectionToggles{
			Orders:    true,
			Inventory: true,
			Staff:     true,
			Menu:      true,
		},
	}
}

// SyncInterval converts SyncIntervalMinutes into a duration.
func (p SyncPreferences) SyncInterval() time.Duration {
	return time.Duration(p.SyncIntervalMinutes) * time.Minute
}
