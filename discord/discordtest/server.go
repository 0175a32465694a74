// Package discordtest provides an in-process fake of the Discord REST API.
package discordtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"logpose.GO/discord"
)

const (
	AppID = "100000000000000001"
	BotID = "100000000000000002"
	Token = "test-token"
)

// Server records command pushes per route and follow-up edits.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	commands map[string][]discord.ApplicationCommand
	puts     int
	failPuts bool
	auth     []string
	edits    []discord.Message
}

func NewServer(t testing.TB) *Server {
	s := &Server{commands: make(map[string][]discord.ApplicationCommand)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/@me", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, discord.User{ID: BotID, Username: "logpose", Bot: true})
	})
	mux.HandleFunc("GET /oauth2/applications/@me", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, discord.Application{ID: AppID, Name: "Log Pose"})
	})
	mux.HandleFunc("PUT /applications/{app}/commands", s.putCommands)
	mux.HandleFunc("PUT /applications/{app}/guilds/{guild}/commands", s.putCommands)
	mux.HandleFunc("PATCH /webhooks/{app}/{token}/messages/@original", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var msg discord.Message
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": 50109, "message": "invalid json"})
			return
		}
		s.mu.Lock()
		s.edits = append(s.edits, msg)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, msg)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) putCommands(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	s.mu.Lock()
	fail := s.failPuts
	s.puts++
	s.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"code": 0, "message": "boom"})
		return
	}

	var cmds []discord.ApplicationCommand
	if err := json.NewDecoder(r.Body).Decode(&cmds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"code": 50035, "message": "invalid form body"})
		return
	}
	s.mu.Lock()
	s.commands[r.URL.Path] = cmds
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cmds)
}

func (s *Server) record(r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = append(s.auth, r.Header.Get("Authorization"))
}

// Commands is the command set last pushed to route.
func (s *Server) Commands(route string) []discord.ApplicationCommand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commands[route]
}

func (s *Server) Pushed(route string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.commands[route]
	return ok
}

func (s *Server) PutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *Server) FailPuts(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = fail
}

// LastAuth is the Authorization header of the last request.
func (s *Server) LastAuth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.auth) == 0 {
		return ""
	}
	return s.auth[len(s.auth)-1]
}

func (s *Server) Edits() []discord.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]discord.Message(nil), s.edits...)
}

// RESTOptions point a REST client at the fake.
func (s *Server) RESTOptions() []discord.RESTOption {
	return []discord.RESTOption{discord.WithBaseURL(s.URL), discord.WithRateLimit(1000, 100)}
}

// NewClient returns a client bound to the fake that has not logged in.
func (s *Server) NewClient() *discord.Client {
	return discord.NewClient(discord.WithREST(s.RESTOptions()...))
}

// ReadyClient returns a logged-in client.
func (s *Server) ReadyClient(t testing.TB) *discord.Client {
	t.Helper()
	c := s.NewClient()
	if err := c.Login(context.Background(), Token); err != nil {
		t.Fatalf("login: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
