package marketplace

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/marketplace/router"
	"github.com/OpenDataspace/portal/internal/marketplace/service"
)

// Manager coordinates the marketplace services and routers
type Manager struct {
	offerService        *service.OfferService
	companyService      *service.CompanyService
	stepService         *service.ProcessStepService
	engine              *service.ProcessEngine
	subscriptionService *service.SubscriptionService
	retriggerService    *service.RetriggerService
	providerService     *service.ProviderService
	subscriptionRouter  *router.SubscriptionRouter
	providerRouter      *router.ProviderRouter
}

// NewManager wires the marketplace services. The notifier is optional;
// a nil notifier disables subscription notifications.
func NewManager(db *gorm.DB, notifier service.SubscriptionNotifier) *Manager {
	// Initialize services
	offerService := service.NewOfferService(db)
	companyService := service.NewCompanyService(db)
	stepService := service.NewProcessStepService(db)
	engine := service.NewProcessEngine(stepService)
	subscriptionService := service.NewSubscriptionService(db, offerService, companyService, engine, stepService, notifier)
	retriggerService := service.NewRetriggerService(db, engine)
	providerService := service.NewProviderService(db)

	m := &Manager{
		offerService:        offerService,
		companyService:      companyService,
		stepService:         stepService,
		engine:              engine,
		subscriptionService: subscriptionService,
		retriggerService:    retriggerService,
		providerService:     providerService,
	}

	// Initialize routers
	m.subscriptionRouter = router.NewSubscriptionRouter(subscriptionService, retriggerService)
	m.providerRouter = router.NewProviderRouter(providerService)

	return m
}

// HTTP Handler delegation methods

// HandleSubscribe handles POST /api/subscriptions
func (m *Manager) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	m.subscriptionRouter.HandleSubscribe(w, r)
}

// HandleGetSubscriptions handles GET /api/subscriptions
func (m *Manager) HandleGetSubscriptions(w http.ResponseWriter, r *http.Request) {
	m.subscriptionRouter.HandleGetSubscriptions(w, r)
}

// HandleGetProcessSteps handles GET /api/subscriptions/{subscriptionID}/steps
func (m *Manager) HandleGetProcessSteps(w http.ResponseWriter, r *http.Request) {
	m.subscriptionRouter.HandleGetProcessSteps(w, r)
}

// HandleRetrigger handles POST /api/subscriptions/{subscriptionID}/retrigger/{stage}
func (m *Manager) HandleRetrigger(w http.ResponseWriter, r *http.Request) {
	m.subscriptionRouter.HandleRetrigger(w, r)
}

// HandleGetProviderDetails handles GET /api/provider/details
func (m *Manager) HandleGetProviderDetails(w http.ResponseWriter, r *http.Request) {
	m.providerRouter.HandleGetDetails(w, r)
}

// HandleSetProviderDetails handles PUT /api/provider/details
func (m *Manager) HandleSetProviderDetails(w http.ResponseWriter, r *http.Request) {
	m.providerRouter.HandleSetDetails(w, r)
}
