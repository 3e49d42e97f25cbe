// package models defines the data model for the wedding invitation backend
package models

import (
	"strings"
	"time"
)

// Transport methods a household can pick when at least one member attends.
const (
	TransportCar   = "car"
	TransportTrain = "train"
	TransportPlane = "plane"
	TransportOther = "other"
)

// ValidTransport reports whether s is one of the accepted transport methods.
func ValidTransport(s string) bool {
	switch s {
	case TransportCar, TransportTrain, TransportPlane, TransportOther:
		return true
	}
	return false
}

// Guest is a single invited person from the pre-seeded directory.
//
// GroupName ties household members together: everyone sharing a group name
// confirms attendance in one RSVP submission.
type Guest struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	GroupName string    `json:"groupName"`
	CreatedAt time.Time `json:"-"`
}

// GuestResponse is the single RSVP row kept per guest. A resubmission
// replaces the previous row for the same guest rather than adding one.
//
// TransportMethod is only stored when the guest attends; the plus-one fields
// only when the guest attends and brings one.
type GuestResponse struct {
	ID                  int64     `json:"id"`
	GuestID             int64     `json:"guestId"`
	IsAttending         bool      `json:"isAttending"`
	DietaryNotes        string    `json:"dietaryNotes,omitempty"`
	TransportMethod     string    `json:"transportMethod,omitempty"`
	HasPlusOne          bool      `json:"hasPlusOne,omitempty"`
	PlusOneName         string    `json:"plusOneName,omitempty"`
	PlusOneDietaryNotes string    `json:"plusOneDietaryNotes,omitempty"`
	SubmittedAt         time.Time `json:"submittedAt"`
}

// RosterEntry is the editable per-guest state of the RSVP form.
type RosterEntry struct {
	GuestID             int64  `json:"guestId"`
	Name                string `json:"name"`
	IsAttending         bool   `json:"isAttending"`
	DietaryNotes        string `json:"dietaryNotes"`
	HasPlusOne          bool   `json:"hasPlusOne"`
	PlusOneName         string `json:"plusOneName"`
	PlusOneDietaryNotes string `json:"plusOneDietaryNotes"`
}

// Household is the result of an invitation search: the resolved group name
// and one entry per member, in guest id order, initialized to the default
// editable state (attending, no notes, no plus-one).
type Household struct {
	Group   string        `json:"group"`
	Entries []RosterEntry `json:"guests"`
}

// NewRosterEntry returns the default editable state for a directory guest.
func NewRosterEntry(g Guest) RosterEntry {
	return RosterEntry{GuestID: g.ID, Name: g.Name, IsAttending: true}
}

// ResponseRecord pairs a directory guest with their submitted RSVP, if any.
type ResponseRecord struct {
	Guest    Guest          `json:"guest"`
	Response *GuestResponse `json:"response,omitempty"`
}

// RSVPExport is a point-in-time snapshot of the guest directory and the
// responses collected so far, used by the export commands.
type RSVPExport struct {
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generatedAt"`
	Records     []ResponseRecord `json:"records"`
}

// Attending counts guests whose response marks them attending.
func (e *RSVPExport) Attending() int {
	n := 0
	for _, rec := range e.Records {
		if rec.Response != nil && rec.Response.IsAttending {
			n++
			if rec.Response.HasPlusOne {
				n++
			}
		}
	}
	return n
}

// Responded counts guests with any submitted response.
func (e *RSVPExport) Responded() int {
	n := 0
	for _, rec := range e.Records {
		if rec.Response != nil {
			n++
		}
	}
	return n
}

// Track is the simplified catalog search result served to the music page.
// Artist holds all artist names joined with ", ".
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Image  string `json:"image,omitempty"`
	URI    string `json:"uri"`
}

// SongRequest is the local log row written after a track was appended to the
// shared playlist. The playlist itself lives on Spotify; this is bookkeeping
// for the couple.
type SongRequest struct {
	ID          int64     `json:"id"`
	TrackURI    string    `json:"trackUri"`
	TrackName   string    `json:"trackName,omitempty"`
	Artist      string    `json:"artist,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// Display returns a human-readable "Artist - Name" label, falling back to
// the URI when metadata is missing.
func (s SongRequest) Display() string {
	if s.TrackName == "" {
		return s.TrackURI
	}
	if s.Artist == "" {
		return s.TrackName
	}
	return strings.Join([]string{s.Artist, s.TrackName}, " - ")
}
