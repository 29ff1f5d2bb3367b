package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-resto-sync/models"
)

const intervalStep = 5

type prefRow struct {
	label  string
	value  func(p models.SyncPreferences) string
	toggle func(p *models.SyncPreferences)
}

var prefRows = []prefRow{
	{
		label:  "Auto sync",
		value:  func(p models.SyncPreferences) string { return onOff(p.AutoSync) },
		toggle: func(p *models.SyncPreferences) { p.AutoSync = !p.AutoSync },
	},
	{
		label: "Sync interval",
		value: func(p models.SyncPreferences) string { return fmt.Sprintf("%d min", p.SyncIntervalMinutes) },
	},
	{
		label:  "Wi-Fi only",
		value:  func(p models.SyncPreferences) string { return onOff(p.WifiOnly) },
		toggle: func(p *models.SyncPreferences) { p.WifiOnly = !p.WifiOnly },
	},
	{
		label:  "Background sync",
		value:  func(p models.SyncPreferences) string { return onOff(p.BackgroundSync) },
		toggle: func(p *models.SyncPreferences) { p.BackgroundSync = !p.BackgroundSync },
	},
	{
		label:  "Conflict policy",
		value:  func(p models.SyncPreferences) string { return string(p.ConflictResolution) },
		toggle: func(p *models.SyncPreferences) { p.ConflictResolution = nextPolicy(p.ConflictResolution) },
	},
	{
		label:  "Queue offline actions",
		value:  func(p models.SyncPreferences) string { return onOff(p.QueueActionsEnabled) },
		toggle: func(p *models.SyncPreferences) { p.QueueActionsEnabled = !p.QueueActionsEnabled },
	},
	collectionRow(models.EntityOrders, func(c *models.CollectionToggles) *bool { return &c.Orders }),
	collectionRow(models.EntityInventory, func(c *models.CollectionToggles) *bool { return &c.Inventory }),
	collectionRow(models.EntityStaff, func(c *models.CollectionToggles) *bool { return &c.Staff }),
	collectionRow(models.EntityMenu, func(c *models.CollectionToggles) *bool { return &c.Menu }),
}

const intervalRow = 1

func collectionRow(entity models.EntityType, field func(c *models.CollectionToggles) *bool) prefRow {
	return prefRow{
		label: "  sync " + string(entity),
		value: func(p models.SyncPreferences) string { return onOff(p.Collections.Enabled(entity)) },
		toggle: func(p *models.SyncPreferences) {
			f := field(&p.Collections)
			*f = !*f
		},
	}
}

// nextPolicy cycles prefer_server, prefer_local and ask_user.
func nextPolicy(current models.ConflictPolicy) models.ConflictPolicy {
	switch current {
	case models.PreferServer:
		return models.PreferLocal
	case models.PreferLocal:
		return models.ConflictPolicy(models.ResolveAskUser)
	}
	return models.PreferServer
}

func adjustInterval(minutes, delta int) int {
	next := minutes + delta*intervalStep
	if minutes < intervalStep && delta > 0 {
		next = intervalStep
	}
	if next < 1 {
		next = 1
	}
	return next
}

func renderPrefs(p models.SyncPreferences, cursor int) string {
	var b strings.Builder
	for i, row := range prefRows {
		line := fmt.Sprintf("%-24s %s", row.label, row.value(p))
		if i == cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
