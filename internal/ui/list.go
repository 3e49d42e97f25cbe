package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"maree/internal/models"
)

var (
	_ list.Item = householdItem{}
	_ list.Item = guestItem{}
	_ list.Item = songItem{}
)

// household aggregates a group's guests with their responses for display.
type household struct {
	group   string
	records []models.ResponseRecord
}

func (h household) responded() int {
	n := 0
	for _, rec := range h.records {
		if rec.Response != nil {
			n++
		}
	}
	return n
}

func (h household) attending() int {
	n := 0
	for _, rec := range h.records {
		if rec.Response != nil && rec.Response.IsAttending {
			n++
			if rec.Response.HasPlusOne {
				n++
			}
		}
	}
	return n
}

// householdItem wraps a household to implement [list.Item].
type householdItem struct {
	household household
}

func (i householdItem) FilterValue() string { return i.household.group }
func (i householdItem) Title() string       { return i.household.group }
func (i householdItem) Description() string {
	h := i.household
	if h.responded() == 0 {
		return fmt.Sprintf("%d invited • no response yet", len(h.records))
	}
	return fmt.Sprintf("%d invited • %d responded • %d seats", len(h.records), h.responded(), h.attending())
}

// guestItem wraps a [models.ResponseRecord] to implement [list.Item].
type guestItem struct {
	record models.ResponseRecord
}

func (i guestItem) FilterValue() string { return i.record.Guest.Name }
func (i guestItem) Title() string       { return i.record.Guest.Name }
func (i guestItem) Description() string {
	r := i.record.Response
	switch {
	case r == nil:
		return "no response yet"
	case !r.IsAttending:
		return "not attending"
	default:
		desc := "attending"
		if r.TransportMethod != "" {
			desc = fmt.Sprintf("%s • by %s", desc, r.TransportMethod)
		}
		if r.DietaryNotes != "" {
			desc = fmt.Sprintf("%s • %s", desc, r.DietaryNotes)
		}
		if r.HasPlusOne {
			desc = fmt.Sprintf("%s • +1 %s", desc, r.PlusOneName)
		}
		return desc
	}
}

// songItem wraps a [models.SongRequest] to implement [list.Item].
type songItem struct {
	request models.SongRequest
}

func (i songItem) FilterValue() string { return i.request.Display() }
func (i songItem) Title() string       { return i.request.Display() }
func (i songItem) Description() string {
	return i.request.RequestedAt.Format("2006-01-02 15:04")
}
