package internal

import (
	"net/http"

	"punchd/internal/controllers"
	"punchd/internal/providers"
	"punchd/internal/structures"
)

func InitRoutes(apiController *controllers.ApiController, conf *structures.Config) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/state", http.HandlerFunc(apiController.GetState))
	routers.Get("/settings", http.HandlerFunc(apiController.GetSettings))
	routers.Post("/settings/save", http.HandlerFunc(apiController.SaveSettings))
	routers.Post("/reset", http.HandlerFunc(apiController.Reset))
	routers.Get("/resolve", http.HandlerFunc(apiController.GetResolved))
	routers.Post("/punch", http.HandlerFunc(apiController.Punch))
	return routers
}
