package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/marcobasurco/Plumbtix-sub001/internal/app"
	"github.com/marcobasurco/Plumbtix-sub001/internal/config"
	"github.com/marcobasurco/Plumbtix-sub001/internal/controllers"
	"github.com/marcobasurco/Plumbtix-sub001/internal/identity"
	"github.com/marcobasurco/Plumbtix-sub001/internal/middleware"
	"github.com/marcobasurco/Plumbtix-sub001/internal/notify"
	"github.com/marcobasurco/Plumbtix-sub001/internal/repositories"
	"github.com/marcobasurco/Plumbtix-sub001/internal/routes"
	"github.com/marcobasurco/Plumbtix-sub001/internal/services"
	"github.com/marcobasurco/Plumbtix-sub001/internal/tokens"
	"github.com/marcobasurco/Plumbtix-sub001/internal/utils"
	"github.com/marcobasurco/Plumbtix-sub001/internal/workflow"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.AppName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize application:", err)
	}
	defer application.Close()

	companyRepo := repositories.NewCompanyRepository(application.DB)
	userRepo := repositories.NewUserRepository(application.DB)
	buildingRepo := repositories.NewBuildingRepository(application.DB)
	spaceRepo := repositories.NewSpaceRepository(application.DB)
	occupantRepo := repositories.NewOccupantRepository(application.DB)
	entitlementRepo := repositories.NewEntitlementRepository(application.DB)
	invitationRepo := repositories.NewInvitationRepository(application.DB)
	ticketRepo := repositories.NewTicketRepository(application.DB)
	statusLogRepo := repositories.NewStatusLogRepository(application.DB)
	auditRepo := repositories.NewNotificationAuditRepository(application.DB)

	var twClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		twClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	var sgClient *sendgrid.Client
	if cfg.SendGridAPIKey != "" {
		sgClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	sender := notify.NewSender(
		sgClient, twClient,
		cfg.AppUrl, cfg.SendgridFromEmail, cfg.TwilioFromPhone,
		cfg.OrganizationName, cfg.SendgridSandboxMode,
	)
	dispatcher := notify.NewDispatcher(sender, auditRepo)

	tokenManager := tokens.NewManager(
		invitationRepo, occupantRepo, userRepo, spaceRepo, buildingRepo,
		tokens.DefaultInviteTTL,
	)
	engine := workflow.NewEngine(ticketRepo, buildingRepo)
	resolver := identity.NewResolver(userRepo, entitlementRepo, occupantRepo)

	authService := services.NewAuthService(userRepo, cfg.RSAPrivateKey)
	companyService := services.NewCompanyService(companyRepo)
	userService := services.NewUserService(userRepo)
	buildingService := services.NewBuildingService(buildingRepo)
	spaceService := services.NewSpaceService(spaceRepo, buildingRepo, occupantRepo)
	occupantService := services.NewOccupantService(occupantRepo, spaceRepo, buildingRepo, tokenManager, dispatcher)
	entitlementService := services.NewEntitlementService(entitlementRepo, buildingRepo, userRepo)
	invitationService := services.NewInvitationService(invitationRepo, companyRepo, tokenManager, dispatcher)
	ticketService := services.NewTicketService(
		ticketRepo, statusLogRepo, buildingRepo, spaceRepo, userRepo, engine, dispatcher,
	)
	cleanupService := services.NewInvitationCleanupService(invitationRepo)

	healthController := controllers.NewHealthController(application)
	authController := controllers.NewAuthController(authService)
	companyController := controllers.NewCompanyController(companyService, resolver)
	userController := controllers.NewUserController(userService, resolver)
	buildingController := controllers.NewBuildingController(buildingService, resolver)
	spaceController := controllers.NewSpaceController(spaceService, resolver)
	occupantController := controllers.NewOccupantController(occupantService, resolver)
	invitationController := controllers.NewInvitationController(invitationService, resolver)
	entitlementController := controllers.NewEntitlementController(entitlementService, resolver)
	ticketController := controllers.NewTicketController(ticketService, resolver)

	router := mux.NewRouter()

	// Public
	router.HandleFunc(routes.Health, healthController.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.AuthLogin, authController.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.InvitationsRedeem, invitationController.RedeemHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.ClaimsRedeem, occupantController.RedeemClaimHandler).Methods(http.MethodPost)

	secured := router.NewRoute().Subrouter()
	secured.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	secured.HandleFunc(routes.Companies, companyController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Companies, companyController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CompanyByID, companyController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.CompanyByID, companyController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.CompanyByID, companyController.DeleteHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.Users, userController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Users, userController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UserByID, userController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.UserByID, userController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.UserByID, userController.DeleteHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.Buildings, buildingController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Buildings, buildingController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingByID, buildingController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.BuildingByID, buildingController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.BuildingByID, buildingController.DeleteHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.Spaces, spaceController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Spaces, spaceController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SpaceByID, spaceController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.SpaceByID, spaceController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.SpaceByID, spaceController.DeleteHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.Occupants, occupantController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Occupants, occupantController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.OccupantByID, occupantController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.OccupantByID, occupantController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.OccupantByID, occupantController.DeleteHandler).Methods(http.MethodDelete)
	secured.HandleFunc(routes.OccupantInvite, occupantController.InviteHandler).Methods(http.MethodPost)

	secured.HandleFunc(routes.Invitations, invitationController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Invitations, invitationController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.InvitationResend, invitationController.ResendHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.InvitationByID, invitationController.RevokeHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.Entitlements, entitlementController.GrantHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Entitlements, entitlementController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.EntitlementByID, entitlementController.RevokeHandler).Methods(http.MethodDelete)

	secured.HandleFunc(routes.Tickets, ticketController.CreateHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.Tickets, ticketController.ListHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TicketByID, ticketController.GetHandler).Methods(http.MethodGet)
	secured.HandleFunc(routes.TicketByID, ticketController.UpdateHandler).Methods(http.MethodPatch)
	secured.HandleFunc(routes.TicketTransition, ticketController.TransitionHandler).Methods(http.MethodPost)
	secured.HandleFunc(routes.TicketHistory, ticketController.HistoryHandler).Methods(http.MethodGet)

	c := cron.New()
	_, cronErr := c.AddFunc("15 0 * * *", func() {
		if e := cleanupService.CleanupDaily(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled invitation cleanup failed")
		}
	})
	if cronErr != nil {
		utils.Logger.WithError(cronErr).Fatal("Failed to schedule invitation cleanup cron")
	}
	c.Start()

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("Server failed to start:", err)
	}
}
