package utils

import (
	fiber "github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/utils/response"
)

// MakeHTTPHandleFunc binds a storage-aware handler to a fiber route
func MakeHTTPHandleFunc(handler func(c *fiber.Ctx, store database.Storage) error, store database.Storage) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			return response.InternalServerError(c, err.Error())
		}
		return nil
	}
}
