package controller

import (
	"github.com/gofiber/fiber/v2"

	"ai-tutor-be/internal/pkg/serverutils"
	"ai-tutor-be/internal/service"
)

type IPersonaController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
}

type personaController struct {
	service service.IPersonaService
}

func NewPersonaController(service service.IPersonaService) IPersonaController {
	return &personaController{service: service}
}

func (c *personaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/persona/v1")
	h.Get("", c.GetAll)
}

func (c *personaController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all personas", res))
}
