// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"bytes"
	"encoding/json"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-resto-sync/models"
)

// editorModel edits record data as JSON. For an existing record the
// submitted object is a patch: only the fields it names are changed.
type editorModel struct {
	entity  models.EntityType
	localID string
	area    textarea.Model
	err     string
}

func newEditor(entity models.EntityType, record *models.LocalRecord) editorModel {
	area := textarea.New()
	area.Placeholder = `{"field": "value"}`
	area.ShowLineNumbers = false
	area.SetWidth(60)
	area.SetHeight(8)
	area.Focus()

	e := editorModel{entity: entity, area: area}
	if record != nil {
		e.localID = record.LocalID
		var pretty bytes.Buffer
		if json.Indent(&pretty, record.Data, "", "  ") == nil {
			e.area.SetValue(pretty.String())
		}
	}
	return e
}

func (e editorModel) update(msg tea.Msg) (editorModel, tea.Cmd) {
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	return e, cmd
}

// payload returns the compacted JSON object or an error line for the view.
func (e editorModel) payload() ([]byte, string) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(e.area.Value()), &obj); err != nil || obj == nil {
		return nil, "Enter a JSON object"
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(e.area.Value())); err != nil {
		return nil, "Enter a JSON object"
	}
	return compact.Bytes(), ""
}

func (e editorModel) View() string {
	title := "NEW " + string(e.entity) + " RECORD"
	if e.localID != "" {
		title = "EDIT " + e.localID
	}

	body := e.area.View()
	if e.err != "" {
		body += "\n" + errorStyle.Render(e.err)
	}
	return overlayBoxStyle.Render(renderPage(title, body, helpLine(keys.save, keys.esc)))
}
