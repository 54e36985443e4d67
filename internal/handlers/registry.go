package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	MasterHandler  *MasterHandler
	ServiceHandler *ServiceHandler
	VisitHandler   *VisitHandler
	ReviewHandler  *ReviewHandler
	ImportHandler  *ImportHandler
	SiteHandler    *SiteHandler
}
