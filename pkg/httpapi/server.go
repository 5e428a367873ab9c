package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/railhop/railhop/pkg/httpapi/routes"
	"github.com/railhop/railhop/pkg/search"
)

func SetupServer(listen string, snapshot *search.TimetableSnapshot, cache *ResponseCache, tarifs *routes.TarifIndex) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/api")

	group.Get("version", routes.APIVersion)

	routes.PlannerRouter(group, snapshot, cache)
	routes.StopsRouter(group, snapshot)
	routes.MiscRouter(group, snapshot)
	routes.DebugRouter(group.Group("/debug"), snapshot)
	routes.TarifsRouter(group, tarifs)

	return webApp.Listen(listen)
}
