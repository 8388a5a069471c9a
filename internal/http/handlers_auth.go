package http

import (
	"net/http"

	applog "ledger/internal/log"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var cmd registerCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, err, "Error registering user", applog.ComponentAuth)
		return
	}

	user, err := s.svc.Auth.Register(r.Context(), cmd.input())
	if err != nil {
		writeError(w, r, err, "Error registering user", applog.ComponentAuth)
		return
	}

	applog.FromContext(r.Context()).WithComponent(applog.ComponentAuth).InfoContext(r.Context(), "User registered",
		applog.FieldUserID, user.ID,
		applog.FieldOperation, applog.OpRegister)
	NewJSONResponse().Status(http.StatusCreated).Payload(user).Write(w)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cmd loginCommand
	if err := decodeJSON(w, r, &cmd); err != nil {
		writeError(w, r, err, "Error logging in", applog.ComponentAuth)
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), cmd.Email, cmd.Password)
	if err != nil {
		writeError(w, r, err, "Error logging in", applog.ComponentAuth)
		return
	}
	NewJSONResponse().Payload(res).Write(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(r.Context(), principal(r)); err != nil {
		writeError(w, r, err, "Error logging out", applog.ComponentAuth)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
