package v1

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/thiagoricci/Rewlio/internal/constants"
	"github.com/thiagoricci/Rewlio/internal/model"
	"github.com/thiagoricci/Rewlio/internal/service"
	"go.uber.org/zap"
)

// twimlEmpty is the acknowledgment Twilio expects. The inbound webhook always
// returns it with a 200, whatever happened internally, to avoid retry storms.
const twimlEmpty = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

type Handler struct {
	logger   *zap.Logger
	validate *validator.Validate
	collect  service.CollectService
	inbound  service.InboundService
	sweep    service.SweepService
	message  service.MessageService
	credit   service.CreditService
}

func NewHandler(logger *zap.Logger, collect service.CollectService, inbound service.InboundService,
	sweep service.SweepService, message service.MessageService, credit service.CreditService) *Handler {
	return &Handler{
		logger:   logger,
		validate: validator.New(),
		collect:  collect,
		inbound:  inbound,
		sweep:    sweep,
		message:  message,
		credit:   credit,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

// CollectInfo serves the flat test-harness payload with the tenant in the body.
func (h *Handler) CollectInfo(c *fiber.Ctx) error {
	var request CollectInfoRequest

	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse collect body", zap.Error(err))
		return badRequest(c, constants.ErrCodeInvalidRequestBody)
	}

	if err := h.validate.Struct(request); err != nil {
		h.logger.Warn("Collect request failed validation", zap.Error(err))
		return badRequest(c, constants.ErrCodeMissingFields)
	}

	cmd := service.CollectInfoCommand{
		TenantID:       request.TenantID,
		CallID:         request.CallID,
		RecipientPhone: request.CallerNumber,
		InfoType:       model.InfoType(request.InfoType),
		PromptMessage:  request.Message,
	}

	return h.runCollect(c, cmd)
}

// CollectInfoAgent serves the voice-agent tool call: tenant in the path,
// nested call/args payload in the body. A flat payload is accepted too so the
// test harness can exercise tenant-scoped routes.
func (h *Handler) CollectInfoAgent(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")
	if tenantID == "" {
		return badRequest(c, constants.ErrCodeMissingFields)
	}

	var agent AgentCollectRequest
	if err := c.BodyParser(&agent); err != nil {
		h.logger.Warn("Failed to parse agent collect body", zap.Error(err))
		return badRequest(c, constants.ErrCodeInvalidRequestBody)
	}

	cmd := service.CollectInfoCommand{
		TenantID:       tenantID,
		CallID:         agent.Call.CallID,
		RecipientPhone: agent.Call.FromNumber,
		InfoType:       model.InfoType(agent.Args.InfoType),
		PromptMessage:  agent.Args.Message,
	}

	if cmd.CallID == "" {
		// Not the nested shape; retry as the flat one.
		var flat CollectInfoRequest
		if err := c.BodyParser(&flat); err != nil || flat.CallID == "" {
			return badRequest(c, constants.ErrCodeMissingFields)
		}
		cmd.CallID = flat.CallID
		cmd.RecipientPhone = flat.CallerNumber
		cmd.InfoType = model.InfoType(flat.InfoType)
		cmd.PromptMessage = flat.Message
	}

	return h.runCollect(c, cmd)
}

func (h *Handler) runCollect(c *fiber.Ctx, cmd service.CollectInfoCommand) error {
	result, err := h.collect.Collect(c.UserContext(), cmd)
	if err != nil {
		return h.collectFailure(c, result, err)
	}

	return c.Status(fiber.StatusOK).JSON(CollectSuccessResponse{
		Success:    true,
		RequestID:  result.RequestCode,
		Value:      result.Value,
		ReceivedAt: result.ReceivedAt.Format(time.RFC3339),
	})
}

func (h *Handler) collectFailure(c *fiber.Ctx, result service.CollectResult, err error) error {
	var serviceErr service.Error
	if !errors.As(err, &serviceErr) {
		h.logger.Error("Collect failed with unexpected error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(CollectFailureResponse{
			Success: false,
			Error:   constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}

	response := CollectFailureResponse{
		Success:   false,
		RequestID: result.RequestCode,
		Error:     constants.GetErrorMessage(serviceErr.Code),
	}

	if serviceErr.Code == constants.ErrCodeRequestExpired {
		response.Status = string(result.Status)
	}

	return c.Status(constants.GetHTTPStatus(serviceErr.Code)).JSON(response)
}

// InboundSms receives Twilio's form-encoded delivery of a reply.
func (h *Handler) InboundSms(c *fiber.Ctx) error {
	cmd := service.InboundSmsCommand{
		From:          c.FormValue("From"),
		To:            c.FormValue("To"),
		Body:          c.FormValue("Body"),
		ProviderMsgID: c.FormValue("MessageSid"),
	}

	h.inbound.HandleReply(c.UserContext(), cmd)

	c.Set(fiber.HeaderContentType, "text/xml")
	return c.Status(fiber.StatusOK).SendString(twimlEmpty)
}

func (h *Handler) Sweep(c *fiber.Ctx) error {
	count, err := h.sweep.SweepExpired(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}

	return c.Status(fiber.StatusOK).JSON(SweepResponse{Success: true, ExpiredCount: count})
}

func (h *Handler) SendMessage(c *fiber.Ctx) error {
	var request SendMessageRequest

	if err := c.BodyParser(&request); err != nil {
		h.logger.Warn("Failed to parse send message body", zap.Error(err))
		return badRequest(c, constants.ErrCodeInvalidRequestBody)
	}

	if err := h.validate.Struct(request); err != nil {
		return badRequest(c, constants.ErrCodeMissingFields)
	}

	cmd := service.SendMessageCommand{
		TenantID:    request.TenantID,
		PhoneNumber: request.PhoneNumber,
		Body:        request.Body,
	}

	sid, err := h.message.SendMessage(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(SendMessageResponse{Success: true, MessageSID: sid})
}

func (h *Handler) GetMessages(c *fiber.Ctx) error {
	query := service.ListMessagesQuery{
		TenantID: c.Params("tenantID"),
		Limit:    c.QueryInt("limit", 50),
		Offset:   c.QueryInt("offset", 0),
	}

	messages, total, err := h.message.ListMessages(query)
	if err != nil {
		h.logger.Error("Failed to list messages", zap.Error(err), zap.String("tenantID", query.TenantID))
		return err
	}

	response := GetMessagesResponse{Messages: make([]MessageResponse, 0, len(messages)), Total: total}
	for _, msg := range messages {
		response.Messages = append(response.Messages, MessageResponse{
			PhoneNumber: msg.PhoneNumber,
			Body:        msg.Body,
			Direction:   string(msg.Direction),
			RequestID:   msg.RequestCode,
			CreatedAt:   msg.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *Handler) GetRequests(c *fiber.Ctx) error {
	query := service.ListRequestsQuery{
		TenantID: c.Params("tenantID"),
		Limit:    c.QueryInt("limit", 50),
		Offset:   c.QueryInt("offset", 0),
	}

	requests, err := h.message.ListRequests(query)
	if err != nil {
		h.logger.Error("Failed to list requests", zap.Error(err), zap.String("tenantID", query.TenantID))
		return err
	}

	response := GetRequestsResponse{Requests: make([]InfoRequestResponse, 0, len(requests))}
	for _, request := range requests {
		response.Requests = append(response.Requests, InfoRequestResponse{
			RequestID:      request.RequestCode,
			CallID:         request.CallID,
			RecipientPhone: request.RecipientPhone,
			InfoType:       string(request.InfoType),
			Status:         string(request.Status),
			ReceivedValue:  request.ReceivedValue,
			CreatedAt:      request.CreatedAt.Format(time.RFC3339),
			ExpiresAt:      request.ExpiresAt.Format(time.RFC3339),
		})
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

func (h *Handler) GetCredits(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")

	balance, err := h.credit.GetBalance(tenantID)
	if err != nil {
		h.logger.Error("Failed to get credit balance", zap.Error(err), zap.String("tenantID", tenantID))
		return err
	}

	return c.Status(fiber.StatusOK).JSON(GetCreditsResponse{TenantID: tenantID, Balance: balance})
}

func badRequest(c *fiber.Ctx, code string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":    code,
		"message": constants.GetErrorMessage(code),
	})
}
