package rest

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/validoio/valido/internal/common"
	"github.com/validoio/valido/internal/server/services"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError serializes any error as the ServiceError envelope. Unknown
// error types come back as a generic 500.
func writeError(w http.ResponseWriter, err error) {
	se := common.AsServiceError(err)
	writeJSON(w, se.Code, se)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, common.BadRequest("Invalid request body"))
		return false
	}
	return true
}

// bearerToken pulls the token out of the Authorization header. The Bearer
// prefix is optional; a bare token is accepted too.
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return h
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := s.users.Signup(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

type verifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

func (s *Server) handleVerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req verifyOtpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.Otp) == "" {
		writeError(w, common.BadRequest("Email and OTP are required"))
		return
	}

	res, err := s.users.VerifySignupOtp(r.Context(), req.Email, req.Otp)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type resendOtpRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleResendOtp(w http.ResponseWriter, r *http.Request) {
	var req resendOtpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, common.BadRequest("Email is required"))
		return
	}

	res, err := s.users.ResendOtp(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRefresh exchanges the refresh token carried in the Authorization
// header for a fresh access token.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, common.BadRequest("Refresh token is required"))
		return
	}

	res, err := s.users.RefreshToken(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	res, err := s.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, common.BadRequest("Invalid user id"))
		return
	}

	res, err := s.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
