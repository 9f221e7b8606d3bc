package handler

import (
	"net/http"

	"perfectapi/internal/service"
)

// Handlers bundles everything RegisterRoutes needs.
type Handlers struct {
	Auth     *service.AuthService
	Users    *UserHandler
	Products *ProductHandler
	Orders   *OrderHandler
	Utility  *UtilityHandler
	Token    *TokenHandler
	Audit    *AuditHandler
}

// RegisterRoutes wires every endpoint onto the mux. Reads are open; writes
// require the matching scope; echo requires any authenticated principal.
func RegisterRoutes(mux *http.ServeMux, h Handlers) {
	auth := h.Auth

	mux.HandleFunc("GET /users", h.Users.HandleList)
	mux.HandleFunc("POST /users", RequireScope(auth, service.ScopeUsersWrite, h.Users.HandleCreate))
	mux.HandleFunc("OPTIONS /users", handleOptions("GET, POST, OPTIONS"))
	mux.HandleFunc("GET /users/{id}", h.Users.HandleGet)
	mux.HandleFunc("PATCH /users/{id}", RequireScope(auth, service.ScopeUsersWrite, h.Users.HandlePatch))
	mux.HandleFunc("DELETE /users/{id}", RequireScope(auth, service.ScopeUsersWrite, h.Users.HandleDelete))
	mux.HandleFunc("OPTIONS /users/{id}", handleOptions("GET, PATCH, DELETE, OPTIONS"))

	mux.HandleFunc("GET /products", h.Products.HandleList)
	mux.HandleFunc("POST /products", RequireScope(auth, service.ScopeProductsWrite, h.Products.HandleCreate))
	mux.HandleFunc("OPTIONS /products", handleOptions("GET, POST, OPTIONS"))
	mux.HandleFunc("GET /products/{id}", h.Products.HandleGet)
	mux.HandleFunc("PUT /products/{id}", RequireScope(auth, service.ScopeProductsWrite, h.Products.HandleReplace))
	mux.HandleFunc("DELETE /products/{id}", RequireScope(auth, service.ScopeProductsWrite, h.Products.HandleDelete))
	mux.HandleFunc("OPTIONS /products/{id}", handleOptions("GET, PUT, DELETE, OPTIONS"))

	mux.HandleFunc("GET /orders", h.Orders.HandleList)
	mux.HandleFunc("POST /orders", RequireScope(auth, service.ScopeOrdersWrite, h.Orders.HandleCreate))
	mux.HandleFunc("OPTIONS /orders", handleOptions("GET, POST, OPTIONS"))
	mux.HandleFunc("GET /orders/{id}", h.Orders.HandleGet)
	mux.HandleFunc("PATCH /orders/{id}", RequireScope(auth, service.ScopeOrdersWrite, h.Orders.HandlePatch))
	mux.HandleFunc("DELETE /orders/{id}", RequireScope(auth, service.ScopeOrdersWrite, h.Orders.HandleDelete))
	mux.HandleFunc("OPTIONS /orders/{id}", handleOptions("GET, PATCH, DELETE, OPTIONS"))

	mux.HandleFunc("GET /status", h.Utility.HandleStatus)
	mux.HandleFunc("OPTIONS /status", handleOptions("GET, OPTIONS"))
	mux.HandleFunc("POST /echo", RequireAuth(auth, h.Utility.HandleEcho))
	mux.HandleFunc("OPTIONS /echo", handleOptions("POST, OPTIONS"))
	mux.HandleFunc("GET /inspect", h.Utility.HandleInspect)

	mux.HandleFunc("POST /token", h.Token.HandleIssue)

	// The activity feed exposes actor names, so it is gated behind auth
	// unlike the entity reads.
	mux.HandleFunc("GET /audit", RequireScope(auth, service.ScopeRead, h.Audit.HandleRecent))
	mux.HandleFunc("OPTIONS /audit", handleOptions("GET, OPTIONS"))
}

func handleOptions(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", allow)
		w.WriteHeader(http.StatusNoContent)
	}
}
