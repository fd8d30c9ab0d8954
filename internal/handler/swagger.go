package handler

import (
	"fmt"
	"html"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const swaggerDocPath = "/swagger/doc.yaml"

// swaggerPage takes the escaped page title and the document URL.
const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>%s - API docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
    window.ui = SwaggerUIBundle({
        url: %q,
        dom_id: "#swagger-ui",
        deepLinking: true,
        docExpansion: "list",
        tagsSorter: "alpha",
        presets: [SwaggerUIBundle.presets.apis]
    });
    </script>
</body>
</html>`

// RegisterSwagger serves spec at /swagger/doc.yaml and a Swagger UI page
// titled after the service under /swagger/.
func RegisterSwagger(router fiber.Router, title string, spec []byte) {
	page := fmt.Sprintf(swaggerPage, html.EscapeString(title), swaggerDocPath)

	router.Get(swaggerDocPath, func(c fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(spec)
	})
	router.Get("/swagger/*", func(c fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(page)
	})
}

// RegisterMetrics exposes the default Prometheus registry on /metrics.
func RegisterMetrics(router fiber.Router) {
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
