package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/s-martin/shinysdr/internal/database"
	"github.com/s-martin/shinysdr/internal/flightradar24"
)

// Server is the console's HTTP front: websocket push, the sightings API and
// static plugin resources.
type Server struct {
	srv *http.Server
}

// New builds the server. sightings may be nil, disabling the API route.
func New(addr string, hub *Hub, sightings database.SightingRepository) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWebSocket)
	mux.HandleFunc(flightradar24.IconURL, serveAircraftIcon)
	if sightings != nil {
		mux.HandleFunc("/api/sightings", handleSightings(sightings))
	}

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func serveAircraftIcon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(flightradar24.IconSVG)
}

func handleSightings(repo database.SightingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 100
		if q := r.URL.Query().Get("limit"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n <= 0 || n > 1000 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		sightings, err := repo.Recent(limit)
		if err != nil {
			http.Error(w, "query failed", http.StatusInternalServerError)
			return
		}

		type sightingJSON struct {
			HeardAt      time.Time `json:"heardAt"`
			ObjectID     string    `json:"objectId"`
			Callsign     *string   `json:"callsign,omitempty"`
			Registration string    `json:"registration,omitempty"`
			Model        string    `json:"model,omitempty"`
			Origin       *string   `json:"origin,omitempty"`
			Destination  *string   `json:"destination,omitempty"`
			Flight       *string   `json:"flight,omitempty"`
			Squawk       *string   `json:"squawk,omitempty"`
			Latitude     *float64  `json:"lat,omitempty"`
			Longitude    *float64  `json:"lon,omitempty"`
			Altitude     *float64  `json:"altitude,omitempty"`
		}
		out := make([]sightingJSON, len(sightings))
		for i, s := range sightings {
			out[i] = sightingJSON{
				HeardAt:      s.HeardAt,
				ObjectID:     s.ObjectID,
				Callsign:     s.Callsign,
				Registration: s.Registration,
				Model:        s.Model,
				Origin:       s.Origin,
				Destination:  s.Destination,
				Flight:       s.Flight,
				Squawk:       s.Squawk,
				Latitude:     s.Latitude,
				Longitude:    s.Longitude,
				Altitude:     s.Altitude,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(out)
	}
}
