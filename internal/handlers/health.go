package handlers

import (
	"net/http"

	"github.com/woorical/apiserver/config"
	"github.com/woorical/apiserver/types"
)

type healthResponse struct {
	OK      bool        `json:"ok"`
	Service string      `json:"service"`
	Range   healthRange `json:"range"`
}

type healthRange struct {
	From types.Date `json:"from"`
	To   types.Date `json:"to"`
}

// Health reports liveness plus the calendar bounds the frontend renders.
func Health(service string, calendar config.CalendarConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			OK:      true,
			Service: service,
			Range:   healthRange{From: calendar.From, To: calendar.To},
		})
	}
}
