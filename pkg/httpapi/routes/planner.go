package routes

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/railhop/railhop/pkg/rtm"
	"github.com/railhop/railhop/pkg/search"
	"github.com/railhop/railhop/pkg/util"
)

func PlannerRouter(router fiber.Router, snapshot *search.TimetableSnapshot, cache responseCache) {
	router.Get("/search", func(c *fiber.Ctx) error {
		return getSearch(c, snapshot, cache)
	})
	router.Get("/explore", func(c *fiber.Ctx) error {
		return getExplore(c, snapshot)
	})
}

func getSearch(c *fiber.Ctx, snapshot *search.TimetableSnapshot, cache responseCache) error {
	fromQuery := c.Query("from")
	toQuery := c.Query("to")
	timeQuery := c.Query("time")

	if fromQuery == "" || toQuery == "" || timeQuery == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameters from, to and time are required",
		})
	}

	startTime, err := util.ParseClock(timeQuery)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter time must be HH:MM",
		})
	}

	date := c.Query("date")
	trainTypes := splitList(c.Query("train_types"))
	detail := c.Query("detail")
	afterDeparture := c.Query("after_dep")
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 0)

	cacheKey := strings.Join([]string{
		"search", fromQuery, toQuery, timeQuery, date,
		strings.Join(trainTypes, "+"), detail, afterDeparture,
		strconv.Itoa(offset), strconv.Itoa(limit),
	}, "|")

	if cached, exists := cache.Get(cacheKey); exists {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	journeys := snapshot.Search(search.Request{
		Origins:      resolveStops(snapshot, fromQuery),
		Destinations: resolveStops(snapshot, toQuery),
		StartTime:    startTime,
		Date:         date,
		TrainTypes:   trainTypes,
	})

	if afterDeparture != "" {
		if floor, err := util.ParseClock(afterDeparture); err == nil {
			util.InPlaceFilter(&journeys, func(journey *rtm.Journey) bool {
				return journey.DepartureTime >= floor
			})
		}
	}

	if offset > 0 {
		if offset > len(journeys) {
			offset = len(journeys)
		}
		journeys = journeys[offset:]
	}
	if limit > 0 && limit < len(journeys) {
		journeys = journeys[:limit]
	}

	groups := []string{"basic"}
	if detail == "full" {
		groups = append(groups, "detailed")
	}

	journeysReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, journeys)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := fiber.Map{
		"journeys": journeysReduced,
	}

	body, err := json.Marshal(response)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	cache.Set(cacheKey, string(body))

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

type exploreRecord struct {
	StopID    string `json:"stopId"`
	Name      string `json:"name"`
	Departure int    `json:"depTime"`
	Arrival   int    `json:"arrTime"`
	Duration  int    `json:"duration"`
	Transfers int    `json:"transfers"`
}

func getExplore(c *fiber.Ctx, snapshot *search.TimetableSnapshot) error {
	fromQuery := c.Query("from")
	if fromQuery == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Parameter from is required",
		})
	}

	date := c.Query("date")

	reachable := snapshot.Explore(resolveStops(snapshot, fromQuery), date)

	records := make([]exploreRecord, 0, len(reachable))
	for stopID, journey := range reachable {
		records = append(records, exploreRecord{
			StopID:    stopID,
			Name:      snapshot.StopNames[stopID],
			Departure: journey.DepartureTime,
			Arrival:   journey.ArrivalTime,
			Duration:  journey.Duration,
			Transfers: journey.Transfers,
		})
	}

	sort.Slice(records, func(a int, b int) bool {
		if records[a].Duration != records[b].Duration {
			return records[a].Duration < records[b].Duration
		}
		return records[a].StopID < records[b].StopID
	})

	return c.JSON(fiber.Map{
		"reachable": records,
	})
}
