// Package supabasetest levanta un proyecto Supabase falso (GoTrue + PostgREST
// mínimos) sobre httptest, para tests del gateway y de punta a punta.
package supabasetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ServiceKey = "service-role-key"
	AnonKey    = "anon-key"
)

type user struct {
	ID        string
	Email     string
	Password  string
	Confirmed bool
}

type profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
}

// Server es un proyecto falso. Los knobs se setean con los métodos Set*.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]*user // por email
	profiles map[string]profile
	inserts  int
	otps     []string

	failInsert  bool
	failSelects int
	delay       time.Duration
	signer      func(userID, email string) string
}

func New() *Server {
	s := &Server{
		users:    map[string]*user{},
		profiles: map[string]profile{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/admin/users", s.requireKey(ServiceKey, s.handleCreateUser))
	mux.HandleFunc("/auth/v1/token", s.requireKey("", s.handleToken))
	mux.HandleFunc("/auth/v1/otp", s.requireKey("", s.handleOTP))
	mux.HandleFunc("/rest/v1/profiles", s.requireKey(ServiceKey, s.handleProfiles))
	s.Server = httptest.NewServer(mux)
	return s
}

// SetFailProfileInsert hace que el insert de profiles responda 500.
func (s *Server) SetFailProfileInsert(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failInsert = v
}

// SetFailProfileSelects responde 503 a los próximos n selects de profiles.
func (s *Server) SetFailProfileSelects(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSelects = n
}

// SetDelay demora todas las respuestas (tests de timeout).
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetTokenSigner firma el access_token que devuelve el login.
func (s *Server) SetTokenSigner(f func(userID, email string) string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signer = f
}

// SeedUser registra un usuario confirmado y devuelve su id.
func (s *Server) SeedUser(email, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.users[email] = &user{ID: id, Email: email, Password: password, Confirmed: true}
	return id
}

// SeedProfile inserta una fila de profiles directamente.
func (s *Server) SeedProfile(id, displayName string, admin bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[id] = profile{ID: id, DisplayName: displayName, IsAdmin: admin, CreatedAt: time.Now().UTC()}
}

// ProfileCount devuelve cuántas filas hay para id (0 o 1 si el invariante se cumple).
func (s *Server) ProfileCount(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; ok {
		return 1
	}
	return 0
}

// Inserts devuelve cuántos inserts efectivos (no ignorados) hubo en profiles.
func (s *Server) Inserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts
}

// OTPs devuelve los emails a los que se "envió" magic link.
func (s *Server) OTPs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.otps...)
}

func (s *Server) requireKey(want string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		delay := s.delay
		s.mu.Unlock()
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		key := r.Header.Get("apikey")
		if key != ServiceKey && key != AnonKey {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid API key"})
			return
		}
		if want != "" && key != want {
			writeJSON(w, http.StatusForbidden, map[string]any{"code": 403, "error_code": "not_admin", "msg": "User not allowed"})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email        string `json:"email"`
		Password     string `json:"password"`
		EmailConfirm bool   `json:"email_confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || len(in.Password) < 6 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"code": 422, "error_code": "validation_failed", "msg": "Password should be at least 6 characters."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[in.Email]; ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"code": 422, "error_code": "email_exists",
			"msg": "A user with this email address has already been registered",
		})
		return
	}
	u := &user{ID: uuid.NewString(), Email: in.Email, Password: in.Password, Confirmed: in.EmailConfirm}
	s.users[in.Email] = u
	writeJSON(w, http.StatusOK, map[string]any{
		"id": u.ID, "aud": "authenticated", "role": "authenticated", "email": u.Email,
		"email_confirmed_at": confirmedAt(u.Confirmed),
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	u, ok := s.users[in.Email]
	signer := s.signer
	s.mu.Unlock()
	if !ok || u.Password != in.Password {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code": 400, "error_code": "invalid_credentials", "msg": "Invalid login credentials",
		})
		return
	}

	access := "access-" + u.ID
	if signer != nil {
		access = signer(u.ID, u.Email)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token":  access,
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": "refresh-" + u.ID,
		"user":          map[string]any{"id": u.ID, "email": u.Email},
	})
}

func (s *Server) handleOTP(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	if !strings.Contains(in.Email, "@") {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"code": 422, "error_code": "validation_failed", "msg": "Unable to validate email address: invalid format"})
		return
	}
	s.mu.Lock()
	s.otps = append(s.otps, in.Email)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		if s.failSelects > 0 {
			s.failSelects--
			s.mu.Unlock()
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"message": "upstream unavailable"})
			return
		}
		id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
		rows := []profile{}
		if p, ok := s.profiles[id]; ok {
			rows = append(rows, p)
		}
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, rows)

	case http.MethodPost:
		var p profile
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"code": "PGRST102", "message": "Invalid body"})
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.failInsert {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"code": "XX000", "message": "internal error"})
			return
		}
		if _, exists := s.profiles[p.ID]; exists {
			if strings.Contains(r.Header.Get("Prefer"), "resolution=ignore-duplicates") {
				w.WriteHeader(http.StatusCreated)
				return
			}
			writeJSON(w, http.StatusConflict, map[string]any{"code": "23505", "message": "duplicate key value violates unique constraint \"profiles_pkey\""})
			return
		}
		s.profiles[p.ID] = p
		s.inserts++
		w.WriteHeader(http.StatusCreated)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func confirmedAt(confirmed bool) any {
	if confirmed {
		return time.Now().UTC().Format(time.RFC3339)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
