package handler

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/gofiber/fiber/v2"

	"docscan/internal/model"
	"docscan/internal/repository"
	"docscan/internal/service"
)

// Embedded so the route works regardless of the process working directory.
//
//go:embed openapi.yaml
var openapiSpec []byte

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay minimal: query parsing here, everything else in the service.
func RegisterRoutes(app *fiber.App, db *sql.DB, docSvc service.DocumentService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.Send(openapiSpec)
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeMessage(c, fiber.StatusServiceUnavailable, "Dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	gdrive := app.Group("/api/google-drive/documents")

	gdrive.Get("/get-dir-content", func(c *fiber.Ctx) error {
		files, err := docSvc.ListFolder(c.UserContext(), c.Query("folderId"))
		if err != nil {
			return writeError(c, err)
		}
		if len(files) == 0 {
			return writeMessage(c, fiber.StatusNotFound, "No documents found in the specified folder")
		}
		return c.JSON(files)
	})

	gdrive.Get("/get-document-metadata/:fileId", func(c *fiber.Ctx) error {
		meta, err := docSvc.GetFileMetadata(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(meta)
	})

	gdrive.Get("/document-content-analysis/:fileId", func(c *fiber.Ctx) error {
		result, err := docSvc.Analyze(c.UserContext(), c.Params("fileId"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(result)
	})

	gdrive.Post("/document-content-analysis/:fileId/save", func(c *fiber.Ctx) error {
		var payload model.DocumentPayload
		if err := c.BodyParser(&payload); err != nil {
			return writeMessage(c, fiber.StatusBadRequest, "No document data available")
		}
		doc, err := docSvc.Save(c.UserContext(), &payload)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(doc)
	})

	database := app.Group("/api/database")

	database.Get("/documents", func(c *fiber.Ctx) error {
		docs, err := docSvc.QueryDocuments(c.UserContext(), repository.DocumentQuery{
			ID:           c.Query("id"),
			Keyword:      c.Query("keyword"),
			DocumentType: model.DocumentType(c.Query("documentType")),
			EntityID:     c.Query("entity"),
		})
		if err != nil {
			return writeError(c, err)
		}
		if len(docs) == 0 {
			return writeMessage(c, fiber.StatusNotFound, "No documents found")
		}
		return c.JSON(docs)
	})

	database.Get("/entities", func(c *fiber.Ctx) error {
		entities, err := docSvc.QueryEntities(c.UserContext(), repository.EntityQuery{
			ID:         c.Query("id"),
			Type:       model.EntityType(c.Query("type")),
			Keyword:    c.Query("keyword"),
			EntityType: model.EntityType(c.Query("entityType")),
			Date:       c.Query("date"),
		})
		if err != nil {
			return writeError(c, err)
		}
		if len(entities) == 0 {
			return writeMessage(c, fiber.StatusNotFound, "No entities found")
		}
		return c.JSON(entities)
	})
}
