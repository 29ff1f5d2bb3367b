package tui

import "github.com/MKhiriev/go-resto-sync/models"

type confirmModel struct {
	record models.LocalRecord
}

func (m confirmModel) View() string {
	content := "Delete " + string(m.record.EntityType) + " record \"" + m.record.LocalID + "\"?\n\n"
	content += "y yes    n no"
	return overlayBoxStyle.Render(content)
}
