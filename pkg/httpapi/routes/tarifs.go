package routes

import (
	"encoding/json"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// The tariff lookup is a flat product index keyed on origin,
// destination, product, class and profile. It is peripheral to the
// query engine and only its contract matters here.

type TarifEntry struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Product     string  `json:"product"`
	Class       string  `json:"class"`
	Profile     string  `json:"profile"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
}

type tarifKey struct {
	Origin      string
	Destination string
	Product     string
	Class       string
	Profile     string
}

type TarifIndex struct {
	entries map[tarifKey]TarifEntry
}

// LoadTarifIndex reads the flat product index; a missing index is a
// warning and every lookup misses.
func LoadTarifIndex(path string) *TarifIndex {
	index := &TarifIndex{entries: map[tarifKey]TarifEntry{}}

	if path == "" {
		return index
	}

	body, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Missing tarif index, lookups will miss")
		return index
	}

	var entries []TarifEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to parse tarif index")
		return index
	}

	for _, entry := range entries {
		index.entries[tarifKey{
			Origin:      entry.Origin,
			Destination: entry.Destination,
			Product:     entry.Product,
			Class:       entry.Class,
			Profile:     entry.Profile,
		}] = entry
	}

	log.Info().Int("entries", len(index.entries)).Msg("Loaded tarif index")

	return index
}

type tarifRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Product     string `json:"product"`
	Class       string `json:"class"`
	Profile     string `json:"profile"`
}

func TarifsRouter(router fiber.Router, index *TarifIndex) {
	router.Post("/tarifs", func(c *fiber.Ctx) error {
		var request tarifRequest
		if err := c.BodyParser(&request); err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Request body must be a tarif lookup",
			})
		}

		entry, exists := index.entries[tarifKey{
			Origin:      request.Origin,
			Destination: request.Destination,
			Product:     request.Product,
			Class:       request.Class,
			Profile:     request.Profile,
		}]
		if !exists {
			return c.JSON(fiber.Map{
				"tarif": nil,
			})
		}

		return c.JSON(fiber.Map{
			"tarif": entry,
		})
	})
}
