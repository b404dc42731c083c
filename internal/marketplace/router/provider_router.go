package router

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OpenDataspace/portal/internal/auth"
	"github.com/OpenDataspace/portal/internal/marketplace/service"
)

type ProviderRouter struct {
	providers *service.ProviderService
}

func NewProviderRouter(providers *service.ProviderService) *ProviderRouter {
	return &ProviderRouter{providers: providers}
}

// ProviderDetailsRequest is the request body for PUT /api/provider/details
type ProviderDetailsRequest struct {
	AutoSetupURL         *string `json:"url"`
	AutoSetupCallbackURL *string `json:"callbackUrl"`
}

// HandleGetDetails handles GET /api/provider/details requests
func (pr *ProviderRouter) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	details, err := pr.providers.GetDetails(r.Context(), identity.CompanyID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(details); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleSetDetails handles PUT /api/provider/details requests
// A nil url removes the configuration.
func (pr *ProviderRouter) HandleSetDetails(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req ProviderDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := pr.providers.SetDetails(r.Context(), identity.CompanyID, req.AutoSetupURL, req.AutoSetupCallbackURL); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
