// Package htmx reads and writes the headers htmx uses to talk to the server.
package htmx

import (
	"net/http"
	"strings"
)

// EventScheduleChanged tells the board to reload after a booking changes.
const EventScheduleChanged = "refreshSchedule"

// IsRequest reports whether r came from htmx rather than a full page load.
func IsRequest(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Trigger asks the client to fire event once the response is swapped in.
func Trigger(w http.ResponseWriter, event string) {
	w.Header().Set("HX-Trigger", event)
}
