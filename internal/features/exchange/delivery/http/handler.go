package http

import (
	"encoding/xml"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"secret-snowman-backend/internal/common/logger"
	"secret-snowman-backend/internal/features/exchange/service"
)

// SMSHandler terminates the Twilio inbound-SMS webhook. Twilio posts
// form-encoded From/Body pairs and expects a TwiML document back; a
// non-2xx status would make it retry, so failures are answered with the
// generic error text and 200.
type SMSHandler struct {
	service *service.ExchangeService
}

func NewSMSHandler(svc *service.ExchangeService) *SMSHandler {
	return &SMSHandler{
		service: svc,
	}
}

func (h *SMSHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/webhook/sms", Recovery(), h.handleInbound)
}

// Recovery answers a panic below the webhook with the generic error
// TwiML. Gin's stock recovery would reply with an empty 500, leaving
// the texter with silence while Twilio retries.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered in webhook handler")

		writeTwiML(c, service.InternalErrorText)
		c.Abort()
	})
}

type twimlMessage struct {
	Body string `xml:"Body"`
}

type twimlResponse struct {
	XMLName xml.Name     `xml:"Response"`
	Message twimlMessage `xml:"Message"`
}

func (h *SMSHandler) handleInbound(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		logger.Error().Err(err).Msg("Failed to parse webhook payload")
		writeTwiML(c, service.InternalErrorText)
		return
	}

	from := c.PostForm("From")
	body := c.PostForm("Body")

	reply, err := h.service.HandleMessage(c.Request.Context(), from, body)
	if err != nil {
		logger.Error().
			Err(err).
			Str("from", from).
			Msg("Failed to handle inbound message")
		reply = service.InternalErrorText
	}

	writeTwiML(c, reply)
}

func writeTwiML(c *gin.Context, text string) {
	doc := twimlResponse{
		Message: twimlMessage{Body: text},
	}
	c.XML(http.StatusOK, doc)
}
