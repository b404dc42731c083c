// Package consent validates that the agreement consents submitted with a
// subscription request exactly satisfy the offer's required agreements.
package consent

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/OpenDataspace/portal/internal/apperrors"
)

// Status represents a company's acceptance of one agreement.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Record is one submitted consent, supplied per subscription attempt.
// Records are caller input and are never persisted by the validator.
type Record struct {
	AgreementID uuid.UUID `json:"agreementId"`
	Status      Status    `json:"status"`
}

// Validate checks that the submitted consents are a strict one-to-one match
// against the required agreement ids and that every required consent is
// ACTIVE. An INACTIVE consent for a required agreement counts as absent.
// On success the accepted agreement ids are returned. Validate has no side
// effects and is safe for unlimited concurrent use.
func Validate(offerID uuid.UUID, required []uuid.UUID, submitted []Record) ([]uuid.UUID, error) {
	requiredSet := make(map[uuid.UUID]struct{}, len(required))
	for _, id := range required {
		requiredSet[id] = struct{}{}
	}

	var extraneous []uuid.UUID
	active := make(map[uuid.UUID]struct{}, len(submitted))
	for _, record := range submitted {
		if _, ok := requiredSet[record.AgreementID]; !ok {
			extraneous = append(extraneous, record.AgreementID)
			continue
		}
		if record.Status == StatusActive {
			active[record.AgreementID] = struct{}{}
		}
	}

	if len(extraneous) > 0 {
		return nil, apperrors.NewInvalidArgument("agreements %s are not valid for offer %s", joinIDs(extraneous), offerID)
	}

	missing := false
	for _, id := range required {
		if _, ok := active[id]; !ok {
			missing = true
			break
		}
	}
	if missing {
		// An inactive consent is treated as absent; the message names the
		// full required set so the caller can correct the request in one go.
		return nil, apperrors.NewInvalidArgument("consent to agreements %s must be given for offer %s", joinIDs(required), offerID)
	}

	accepted := make([]uuid.UUID, 0, len(active))
	for id := range active {
		accepted = append(accepted, id)
	}
	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].String() < accepted[j].String()
	})
	return accepted, nil
}

func joinIDs(ids []uuid.UUID) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, ", ")
}
