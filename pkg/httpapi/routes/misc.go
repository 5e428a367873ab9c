package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/railhop/railhop/pkg/search"
)

func MiscRouter(router fiber.Router, snapshot *search.TimetableSnapshot) {
	router.Get("/meta", func(c *fiber.Ctx) error {
		return c.JSON(snapshot.Timetable.Meta)
	})
}

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": "railhop-1",
	})
}
