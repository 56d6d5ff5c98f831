package http

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "secret-snowman-backend/internal/common/errors"
	"secret-snowman-backend/internal/features/exchange/service"
	"secret-snowman-backend/internal/features/participant/models"
)

type stubRepo struct {
	participants map[string]*models.Participant
}

func (r *stubRepo) GetByPhone(_ context.Context, phone string) (*models.Participant, error) {
	p, ok := r.participants[phone]
	if !ok {
		return nil, apperrors.NewParticipantNotFoundError(phone)
	}
	return p, nil
}

func (r *stubRepo) ListAll(context.Context) ([]*models.Participant, error) {
	return nil, nil
}

func (r *stubRepo) ListByGiftStatus(context.Context, bool) ([]*models.Participant, error) {
	return nil, nil
}

func (r *stubRepo) SetAssigned(context.Context, string, string) error {
	return nil
}

func (r *stubRepo) SetGiftPurchased(_ context.Context, phone string, purchased bool) error {
	r.participants[phone].GiftPurchased = purchased
	return nil
}

// panicRepo blows up on lookup to exercise the webhook's recovery path.
type panicRepo struct {
	stubRepo
}

func (r *panicRepo) GetByPhone(context.Context, string) (*models.Participant, error) {
	panic("store connection lost")
}

type stubSender struct{}

func (stubSender) Send(context.Context, string, string) (string, error) {
	return "SM000", nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	repo := &stubRepo{participants: map[string]*models.Participant{
		"+12065550001": {Phone: "+12065550001", Name: "Alice", Assigned: "+12065550002"},
		"+12065550002": {Phone: "+12065550002", Name: "Bob", Assigned: "+12065550001"},
	}}
	engine := service.NewEngine(rand.New(rand.NewSource(1)), 100)
	svc := service.NewExchangeService(repo, stubSender{}, engine, "+12065550100", zerolog.Nop())

	router := gin.New()
	NewSMSHandler(svc).RegisterRoutes(router)
	return router
}

func postSMS(t *testing.T, router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/webhook/sms", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookRepliesWithTwiML(t *testing.T) {
	router := newTestRouter()

	w := postSMS(t, router, url.Values{
		"From": {"+12065550001"},
		"Body": {"assignment"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "xml")

	body := w.Body.String()
	assert.Contains(t, body, "<Response>")
	assert.Contains(t, body, "<Message>")
	assert.Contains(t, body, "<Body>")
	assert.Contains(t, body, "Bob")
}

func TestWebhookMissingFrom(t *testing.T) {
	router := newTestRouter()

	w := postSMS(t, router, url.Values{
		"Body": {"assignment"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "participating in Secret Snowman")
}

func TestWebhookRecoversPanicsToErrorTwiML(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := service.NewEngine(rand.New(rand.NewSource(1)), 100)
	svc := service.NewExchangeService(&panicRepo{}, stubSender{}, engine, "+12065550100", zerolog.Nop())

	router := gin.New()
	NewSMSHandler(svc).RegisterRoutes(router)

	w := postSMS(t, router, url.Values{
		"From": {"+12065550001"},
		"Body": {"assignment"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "xml")
	assert.Contains(t, w.Body.String(), service.InternalErrorText)
}

func TestWebhookUnknownTextEchoed(t *testing.T) {
	router := newTestRouter()

	w := postSMS(t, router, url.Values{
		"From": {"+12065550001"},
		"Body": {"xyz"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "xyz")
}
