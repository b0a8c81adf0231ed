package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/MuhammadDevPk/langflow/pkg/palette"
	"github.com/MuhammadDevPk/langflow/pkg/persistence"
	"github.com/MuhammadDevPk/langflow/pkg/source"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleConvertError maps compiler error classes onto problem documents:
// malformed documents are the client's fault, palette gaps are the
// deployment's.
func handleConvertError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, source.ErrParse):
		problem := problems.NewStatusProblem(400).
			WithInstance(c.Path()).
			WithType("parse_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusBadRequest).JSON(problem)

	case errors.Is(err, source.ErrStructural):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("structural_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case errors.Is(err, palette.ErrPalette):
		problem := problems.NewStatusProblem(422).
			WithInstance(c.Path()).
			WithType("palette_error").
			WithDetail(err.Error())

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	case persistence.IsFlowNotFound(err):
		return notFound(c, "flow not found")

	default:
		return internalError(c, err)
	}
}
