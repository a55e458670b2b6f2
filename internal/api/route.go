package api

import (
	"github.com/gofiber/fiber/v2"
	v1 "github.com/thiagoricci/Rewlio/internal/api/v1"
	"github.com/thiagoricci/Rewlio/internal/metrics"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", metrics.PrometheusHandler())

	app.Post(prefixV1+"/requests", handler.CollectInfo)
	app.Post(prefixV1+"/requests/:tenantID", handler.CollectInfoAgent)
	app.Post(prefixV1+"/webhooks/sms", handler.InboundSms)
	app.Post(prefixV1+"/sweep", handler.Sweep)
	app.Post(prefixV1+"/messages", handler.SendMessage)

	app.Get(prefixV1+"/tenants/:tenantID/messages", handler.GetMessages)
	app.Get(prefixV1+"/tenants/:tenantID/requests", handler.GetRequests)
	app.Get(prefixV1+"/tenants/:tenantID/credits", handler.GetCredits)
}
