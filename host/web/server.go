// Package web bridges HTTP and websocket requests to a board
package web

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"gpiocdc/core"
	"gpiocdc/host/client"
	"gpiocdc/protocol"
)

// maxRawBody bounds a POST /raw command string
const maxRawBody = 4096

// Operation names accepted by POST /pins/{selector}/{op}
var operations = map[string]byte{
	"high":                core.OpHigh,
	"low":                 core.OpLow,
	"pulse":               core.OpPulseLowHigh,
	"pulse-inverted":      core.OpPulseHighLow,
	"long-pulse":          core.OpLongLowHigh,
	"long-pulse-inverted": core.OpLongHighLow,
}

type ServerConfig struct {
	Verbose bool

	// Stats, when set, backs GET /stats
	Stats func() core.Stats

	// Link, when set, adds the device side's link counters to GET /stats
	Link func() protocol.LinkStats
}

// StatsReply is the GET /stats body
type StatsReply struct {
	core.Stats
	Link *protocol.LinkStats `json:"link,omitempty"`
}

type Server struct {
	Client *client.Client
	Layout core.Layout
	Config ServerConfig

	router     *mux.Router
	wsUpgrader *websocket.Upgrader
}

// PinInfo describes one selector of the layout
type PinInfo struct {
	Selector string `json:"selector"`
	Pin      string `json:"pin"`
	Port     string `json:"port"`
	Bit      uint8  `json:"bit"`
	Label    string `json:"label,omitempty"`
}

type LayoutInfo struct {
	Name string    `json:"name"`
	Pins []PinInfo `json:"pins"`
}

// Result is the reply to every command request
type Result struct {
	Sent   string `json:"sent"`
	Echoes string `json:"echoes"`
	Error  string `json:"error,omitempty"`
}

func NewServer(c *client.Client, layout core.Layout, cfg ServerConfig) *Server {
	srv := &Server{
		Client: c,
		Layout: layout,
		Config: cfg,
	}
	srv.wsUpgrader = &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	verbose := cfg.Verbose
	srv.router = mux.NewRouter()

	srv.router.Handle("/layout",
		Logger(http.HandlerFunc(srv.LayoutHandler), "layout", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/help",
		Logger(http.HandlerFunc(srv.HelpHandler), "help", verbose)).
		Methods("GET")
	srv.router.Handle("/stats",
		Logger(http.HandlerFunc(srv.StatsHandler), "stats", verbose)).
		Methods("GET", "HEAD")
	srv.router.Handle("/pins/{selector}/{op}",
		Logger(http.HandlerFunc(srv.PinHandler), "pins", verbose)).
		Methods("POST")
	srv.router.Handle("/raw",
		Logger(http.HandlerFunc(srv.RawHandler), "raw", verbose)).
		Methods("POST")
	srv.router.Handle("/ws",
		Logger(http.HandlerFunc(srv.Websocket), "ws", verbose)).
		Methods("GET")

	return srv
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves the bridge on addr until it fails
func (s *Server) ListenAndServe(addr string) error {
	httpServer := &http.Server{
		Handler:     s.router,
		Addr:        addr,
		ReadTimeout: 4 * time.Second,
	}
	return httpServer.ListenAndServe()
}

func (s *Server) LayoutHandler(w http.ResponseWriter, r *http.Request) {
	info := LayoutInfo{Name: s.Layout.Name, Pins: []PinInfo{}}
	for _, sel := range s.Layout.Pins.Selectors() {
		pin, _ := s.Layout.Pins.Lookup(sel)
		info.Pins = append(info.Pins, PinInfo{
			Selector: string(sel),
			Pin:      pin.String(),
			Port:     pin.Port.String(),
			Bit:      pin.Bit,
			Label:    s.Layout.Pins.Label(sel),
		})
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) HelpHandler(w http.ResponseWriter, r *http.Request) {
	help, err := s.Client.Help()
	if err != nil {
		log.Println("error reading help:", err)
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=us-ascii")
	io.WriteString(w, help)
}

func (s *Server) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Config.Stats == nil {
		http.Error(w, "stats are only available from the simulator", http.StatusNotFound)
		return
	}
	reply := StatsReply{Stats: s.Config.Stats()}
	if s.Config.Link != nil {
		link := s.Config.Link()
		reply.Link = &link
	}
	writeJSON(w, http.StatusOK, reply)
}

// PinHandler selects a pin and runs one operation on it
func (s *Server) PinHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	sel := vars["selector"]
	if len(sel) != 1 {
		http.Error(w, "selector must be a single character", http.StatusNotFound)
		return
	}
	if _, ok := s.Layout.Pins.Lookup(sel[0]); !ok {
		http.Error(w, "no pin "+sel+" in layout "+s.Layout.Name, http.StatusNotFound)
		return
	}
	op, ok := operations[vars["op"]]
	if !ok {
		http.Error(w, "unknown operation "+vars["op"], http.StatusNotFound)
		return
	}

	res, err := s.exec(sel + string(op))
	writeResult(w, res, err)
}

// RawHandler sends the request body as command characters
func (s *Server) RawHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRawBody+1))
	if err != nil {
		http.Error(w, "couldn't read body", http.StatusBadRequest)
		return
	}
	if len(body) > maxRawBody {
		http.Error(w, "command string too long", http.StatusRequestEntityTooLarge)
		return
	}
	res, err := s.exec(string(body))
	writeResult(w, res, err)
}

// Websocket sends the characters of each text frame and answers with a
// Result per frame
func (s *Server) Websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("error subscribing to websocket:", err)
		return
	}
	defer conn.Close()

	if s.Config.Verbose {
		log.Printf("websocket - connection from %s", conn.RemoteAddr())
	}

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if s.Config.Verbose {
				log.Printf("websocket - lost connection to %s", conn.RemoteAddr())
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		res, _ := s.exec(string(msg))
		if err := conn.WriteJSON(res); err != nil {
			return
		}
	}
}

func (s *Server) exec(seq string) (Result, error) {
	echoes, err := s.Client.Exec(seq)
	res := Result{Sent: seq, Echoes: string(echoes)}
	if err != nil {
		res.Error = err.Error()
	}
	return res, err
}

func writeResult(w http.ResponseWriter, res Result, err error) {
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	writeJSON(w, status, res)
}

// statusFor maps client errors to HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, client.ErrNoEcho):
		return http.StatusGatewayTimeout
	case errors.Is(err, client.ErrUnknownCommand):
		return http.StatusUnprocessableEntity
	case errors.Is(err, client.ErrClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("error encoding json:", err)
	}
}
