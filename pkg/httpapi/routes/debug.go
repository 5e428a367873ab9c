package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kr/pretty"
	"github.com/railhop/railhop/pkg/rtm"
	"github.com/railhop/railhop/pkg/search"
)

func DebugRouter(router fiber.Router, snapshot *search.TimetableSnapshot) {
	router.Get("/trips", func(c *fiber.Ctx) error {
		return debugTrips(c, snapshot)
	})
}

// debugTrips is inspection only: dump the trips on a route, or every
// trip calling at a stop, optionally restricted to the services active
// on a date.
func debugTrips(c *fiber.Ctx, snapshot *search.TimetableSnapshot) error {
	routeQuery := c.Query("route")
	stopQuery := c.Query("stop")
	date := c.Query("date")

	if routeQuery == "" && stopQuery == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter route or stop is required",
		})
	}

	var activeServices map[string]bool
	if date != "" {
		activeServices = snapshot.Timetable.ActiveServices(date)
	}

	keep := func(trip *rtm.Trip) bool {
		return activeServices == nil || activeServices[trip.ServiceID]
	}

	var trips []*rtm.Trip

	if routeQuery != "" {
		for _, trip := range snapshot.Timetable.RouteTrips[routeQuery] {
			if keep(trip) {
				trips = append(trips, trip)
			}
		}
	} else {
		for _, routeID := range snapshot.Timetable.RoutesByStop[stopQuery] {
			for _, trip := range snapshot.Timetable.RouteTrips[routeID] {
				if keep(trip) {
					trips = append(trips, trip)
				}
			}
		}
	}

	if c.QueryBool("pretty", false) {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(pretty.Sprint(trips))
	}

	return c.JSON(fiber.Map{
		"trips": trips,
	})
}
