package swagger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v3"
)

const (
	docsPath      = "/commitbot/docs"
	embedJSONPath = "docs/swagger.json"
	diskJSONPath  = "internal/swagger/docs/swagger.json"
	swaggerUIPath = "https://unpkg.com/swagger-ui-dist@5"
)

var uiPage = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Commitbot API Docs</title>
  <link rel="stylesheet" href="%[1]s/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="%[1]s/swagger-ui-bundle.js"></script>
  <script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%[2]s/doc.json',
      dom_id: '#swagger-ui',
      deepLinking: true,
      displayRequestDuration: true,
    });
  };
  </script>
</body>
</html>`, swaggerUIPath, docsPath)

// Register serves the swagger UI and its document under /commitbot/docs.
// A non-empty version replaces info.version of the served document.
func Register(router fiber.Router, version string) {
	if router == nil {
		return
	}

	doc, docErr := renderDoc(version)

	router.Get(docsPath, func(c fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.SendString(uiPage)
	})

	router.Get(docsPath+"/doc.json", func(c fiber.Ctx) error {
		if docErr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "swagger document unavailable: " + docErr.Error(),
			})
		}

		c.Type("json", "utf-8")
		return c.Send(doc)
	})
}

func renderDoc(version string) ([]byte, error) {
	data, err := loadDoc(embedJSONPath, diskJSONPath)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", embedJSONPath, err)
	}

	if version = strings.TrimSpace(version); version != "" {
		info, ok := doc["info"].(map[string]any)
		if !ok {
			info = map[string]any{}
			doc["info"] = info
		}
		info["version"] = version
	}
	doc["basePath"] = "/"

	return json.MarshalIndent(doc, "", "    ")
}
