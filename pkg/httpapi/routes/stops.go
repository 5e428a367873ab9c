package routes

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/railhop/railhop/pkg/reconcile"
	"github.com/railhop/railhop/pkg/search"
	"github.com/railhop/railhop/pkg/util"
)

const maxAutocompleteResults = 25

func StopsRouter(router fiber.Router, snapshot *search.TimetableSnapshot) {
	router.Get("/stops", func(c *fiber.Ctx) error {
		return listStops(c, snapshot)
	})
	router.Get("/cities", func(c *fiber.Ctx) error {
		return listCities(c, snapshot)
	})
}

type stopRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Operator  string  `json:"operator"`
}

func listStops(c *fiber.Ctx, snapshot *search.TimetableSnapshot) error {
	query := c.Query("q")
	if query == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter q is required",
		})
	}

	normalized := reconcile.NormalizeName(util.TrimString(query, 64))

	var records []stopRecord
	for _, station := range snapshot.Stations.Stations {
		if !strings.Contains(reconcile.NormalizeName(station.DisplayName), normalized) {
			continue
		}

		for _, stopID := range station.MemberStopIDs {
			stop := snapshot.Timetable.Stops[stopID]
			if stop == nil {
				continue
			}

			records = append(records, stopRecord{
				ID:        stopID,
				Name:      snapshot.StopNames[stopID],
				Latitude:  stop.Latitude,
				Longitude: stop.Longitude,
				Operator:  stop.Operator,
			})
		}

		if len(records) >= maxAutocompleteResults {
			records = records[:maxAutocompleteResults]
			break
		}
	}

	return c.JSON(fiber.Map{
		"stops": records,
	})
}

func listCities(c *fiber.Ctx, snapshot *search.TimetableSnapshot) error {
	query := c.Query("q")
	if query == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter q is required",
		})
	}

	normalized := reconcile.NormalizeName(query)

	var groups []interface{}
	for _, group := range snapshot.Stations.CityGroups {
		if !strings.Contains(reconcile.NormalizeName(group.City), normalized) {
			continue
		}

		groupReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, group)
		if err != nil {
			continue
		}

		groups = append(groups, groupReduced)

		if len(groups) >= maxAutocompleteResults {
			break
		}
	}

	return c.JSON(fiber.Map{
		"cities": groups,
	})
}
