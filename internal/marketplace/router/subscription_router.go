package router

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/OpenDataspace/portal/internal/auth"
	"github.com/OpenDataspace/portal/internal/consent"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
	"github.com/OpenDataspace/portal/internal/marketplace/service"
)

type SubscriptionRouter struct {
	subscriptions *service.SubscriptionService
	retriggers    *service.RetriggerService
}

func NewSubscriptionRouter(subscriptions *service.SubscriptionService, retriggers *service.RetriggerService) *SubscriptionRouter {
	return &SubscriptionRouter{
		subscriptions: subscriptions,
		retriggers:    retriggers,
	}
}

// SubscribeRequest is the request body for POST /api/subscriptions
type SubscribeRequest struct {
	OfferID   uuid.UUID        `json:"offerId"`
	OfferType model.OfferType  `json:"offerType"`
	Consents  []consent.Record `json:"consents"`
}

// SubscribeResponse is the response body for POST /api/subscriptions
type SubscribeResponse struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
}

// HandleSubscribe handles POST /api/subscriptions requests
// Request body: SubscribeRequest
func (sr *SubscriptionRouter) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.OfferID == uuid.Nil {
		http.Error(w, "offerId is required", http.StatusBadRequest)
		return
	}
	offerType := req.OfferType
	if offerType == "" {
		offerType = model.OfferTypeApp
	}

	subscriptionID, err := sr.subscriptions.Subscribe(r.Context(), req.OfferID, req.Consents,
		service.Identity{UserID: identity.UserID, CompanyID: identity.CompanyID}, offerType)
	if err != nil {
		slog.WarnContext(r.Context(), "subscription request rejected", "offer_id", req.OfferID, "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SubscribeResponse{SubscriptionID: subscriptionID}); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleGetSubscriptions handles GET /api/subscriptions?status={status}&offset={offset}&limit={limit} requests
// The company is taken from the authenticated identity.
func (sr *SubscriptionRouter) HandleGetSubscriptions(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var statusFilter *model.SubscriptionStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		status := model.SubscriptionStatus(statusStr)
		switch status {
		case model.SubscriptionStatusPending, model.SubscriptionStatusActive, model.SubscriptionStatusInactive:
			statusFilter = &status
		default:
			http.Error(w, "invalid 'status' query parameter", http.StatusBadRequest)
			return
		}
	}

	var offsetPtr, limitPtr *int
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			http.Error(w, "invalid 'offset' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		offsetPtr = &offset
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			http.Error(w, "invalid 'limit' query parameter, must be an integer", http.StatusBadRequest)
			return
		}
		limitPtr = &limit
	}

	subscriptions, err := sr.subscriptions.ListCompanySubscriptions(r.Context(), identity.CompanyID,
		model.SubscriptionStatusFilter(statusFilter), offsetPtr, limitPtr)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(subscriptions); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleGetProcessSteps handles GET /api/subscriptions/{subscriptionID}/steps requests
func (sr *SubscriptionRouter) HandleGetProcessSteps(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := uuid.Parse(r.PathValue("subscriptionID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid subscriptionID: %v", err), http.StatusBadRequest)
		return
	}

	steps, err := sr.subscriptions.ProcessStepsForSubscription(r.Context(), subscriptionID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(steps); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}

// HandleRetrigger handles POST /api/subscriptions/{subscriptionID}/retrigger/{stage} requests
// Stage is one of: provider, create-client, create-technical-user,
// provider-callback, create-dim-technical-user.
func (sr *SubscriptionRouter) HandleRetrigger(w http.ResponseWriter, r *http.Request) {
	subscriptionID, err := uuid.Parse(r.PathValue("subscriptionID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid subscriptionID: %v", err), http.StatusBadRequest)
		return
	}

	var retrigger func(r *http.Request) error
	switch stage := r.PathValue("stage"); stage {
	case "provider":
		retrigger = func(r *http.Request) error {
			return sr.retriggers.RetriggerProvider(r.Context(), subscriptionID)
		}
	case "create-client":
		retrigger = func(r *http.Request) error {
			return sr.retriggers.RetriggerCreateClient(r.Context(), subscriptionID)
		}
	case "create-technical-user":
		retrigger = func(r *http.Request) error {
			return sr.retriggers.RetriggerCreateTechnicalUser(r.Context(), subscriptionID)
		}
	case "provider-callback":
		retrigger = func(r *http.Request) error {
			return sr.retriggers.RetriggerProviderCallback(r.Context(), subscriptionID)
		}
	case "create-dim-technical-user":
		retrigger = func(r *http.Request) error {
			return sr.retriggers.RetriggerCreateDimTechnicalUser(r.Context(), subscriptionID)
		}
	default:
		http.Error(w, fmt.Sprintf("unknown retrigger stage: %s", stage), http.StatusBadRequest)
		return
	}

	if err := retrigger(r); err != nil {
		slog.WarnContext(r.Context(), "retrigger rejected", "subscription_id", subscriptionID, "error", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
