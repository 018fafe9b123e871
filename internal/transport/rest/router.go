package rest

import "net/http"

// NewRouter registers every REST route on a ServeMux. Authentication
// and admin-role enforcement happen inside the handlers; the returned
// mux is meant to be wrapped with the middleware chain.
func NewRouter(authH *AuthHandler, adminH *AdminHandler, healthH *HealthHandler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", authH.Login)
	mux.HandleFunc("POST /auth/recovery/request", authH.RecoveryRequest)
	mux.HandleFunc("POST /auth/recovery/verify", authH.RecoveryVerify)

	mux.HandleFunc("GET /admin/accounts", adminH.ListAccounts)
	mux.HandleFunc("POST /admin/accounts", adminH.CreateAccount)
	mux.HandleFunc("GET /admin/accounts/{id}", adminH.GetAccount)
	mux.HandleFunc("PUT /admin/accounts/{id}", adminH.UpdateAccount)
	mux.HandleFunc("DELETE /admin/accounts/{id}", adminH.DeleteAccount)
	mux.HandleFunc("POST /admin/accounts/{id}/lock", adminH.LockAccount)
	mux.HandleFunc("POST /admin/accounts/{id}/unlock", adminH.UnlockAccount)

	mux.HandleFunc("GET /admin/report", adminH.DailyReport)
	mux.HandleFunc("POST /admin/report/send", adminH.SendReport)
	mux.HandleFunc("GET /admin/events", adminH.ListEvents)
	mux.HandleFunc("GET /admin/actions", adminH.ListActions)
	mux.HandleFunc("GET /admin/monitor", adminH.Monitor)

	mux.HandleFunc("GET /health", healthH.Health)
	mux.HandleFunc("GET /health/live", healthH.Live)
	mux.HandleFunc("GET /health/ready", healthH.Ready)

	return mux
}
