package services

import (
	"barber_backend/internal/auth"
	"barber_backend/internal/config"
	"barber_backend/internal/imageprocessor"
	"barber_backend/internal/moderation"
	"barber_backend/internal/notify"
	"barber_backend/internal/repositories"
	"barber_backend/internal/storage"
	"barber_backend/internal/validator"
)

// Dependencies - внешние зависимости сервисного слоя
type Dependencies struct {
	Config     *config.Config
	Validator  *validator.Validator
	JWT        *auth.JWTManager
	Classifier moderation.Classifier
	Notifier   notify.Notifier
	Storage    storage.Storage
	Images     *imageprocessor.Processor
}

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	CatalogService CatalogService
	MasterService  MasterService
	VisitService   VisitService
	ReviewService  ReviewService
	ImportService  ImportService
}

// NewServiceContainer собирает сервисы. Репозитории не хранят состояние,
// поэтому создаются здесь же.
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	serviceRepo := repositories.NewServiceRepository()
	masterRepo := repositories.NewMasterRepository()
	visitRepo := repositories.NewVisitRepository()
	reviewRepo := repositories.NewReviewRepository()
	importRunRepo := repositories.NewImportRunRepository()

	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.NewMulti()
	}
	images := deps.Images
	if images == nil {
		images = imageprocessor.NewProcessor(deps.Config.Upload.ImageQuality, deps.Config.Upload.PhotoWidth)
	}

	return &ServiceContainer{
		AuthService:    NewAuthService(userRepo, deps.JWT, deps.Config),
		CatalogService: NewCatalogService(serviceRepo),
		MasterService: NewMasterService(
			masterRepo, serviceRepo, visitRepo, reviewRepo,
			deps.Storage, images, deps.Config,
		),
		VisitService: NewVisitService(
			visitRepo, masterRepo, serviceRepo,
			notifier, deps.Validator, deps.Config,
		),
		ReviewService: NewReviewService(
			reviewRepo, masterRepo,
			moderation.NewModerator(deps.Classifier), deps.Validator, deps.Config,
		),
		ImportService: NewImportService(importRunRepo),
	}
}
