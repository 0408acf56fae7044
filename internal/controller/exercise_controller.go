package controller

import (
	"github.com/gofiber/fiber/v2"

	"ai-tutor-be/internal/dto"
	"ai-tutor-be/internal/pkg/serverutils"
	"ai-tutor-be/internal/service"
)

type IExerciseController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Evaluate(ctx *fiber.Ctx) error
	GetHint(ctx *fiber.Ctx) error
	GetSolution(ctx *fiber.Ctx) error
}

type exerciseController struct {
	service service.IExerciseService
}

func NewExerciseController(service service.IExerciseService) IExerciseController {
	return &exerciseController{service: service}
}

func (c *exerciseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/exercise/v1")
	h.Post("/generate", c.Generate)
	h.Post("/evaluate", c.Evaluate)
	h.Post("/hint", c.GetHint)
	h.Get("/:id/solutions", c.GetSolution)
}

func (c *exerciseController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateExerciseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate exercise", res))
}

func (c *exerciseController) Evaluate(ctx *fiber.Ctx) error {
	var req dto.EvaluateAnswersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Evaluate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success evaluate answers", res))
}

func (c *exerciseController) GetHint(ctx *fiber.Ctx) error {
	var req dto.HintRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetHint(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get hint", res))
}

func (c *exerciseController) GetSolution(ctx *fiber.Ctx) error {
	res, err := c.service.GetSolution(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get solution", res))
}
