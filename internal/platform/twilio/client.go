package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "secret-snowman-backend/internal/common/errors"
)

const defaultBaseURL = "https://api.twilio.com"

// Client sends SMS through the Twilio Messages API. Sends are
// rate-limited to stay under the account's throughput cap.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	fromPhone  string
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

func NewClient(accountSID, authToken, fromPhone string, sendRate float64, logger zerolog.Logger) *Client {
	if sendRate <= 0 {
		sendRate = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    defaultBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		fromPhone:  fromPhone,
		limiter:    rate.NewLimiter(rate.Limit(sendRate), 1),
		logger:     logger,
	}
}

// messageResponse is the subset of the Messages API response we read.
type messageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send delivers body to toPhone and returns the message SID.
func (c *Client) Send(ctx context.Context, toPhone, body string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", apperrors.NewTwilioAPIError("rate limit wait", err)
	}

	form := url.Values{}
	form.Set("To", toPhone)
	form.Set("From", c.fromPhone)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewTwilioAPIError("build request", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewTwilioAPIError("send message", err)
	}
	defer resp.Body.Close()

	var msg messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return "", apperrors.NewTwilioAPIError("decode response", err)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", apperrors.NewTwilioAPIError(
			"send message",
			fmt.Errorf("status %d: %s (code %d)", resp.StatusCode, msg.Message, msg.Code),
		).WithDetail("to", toPhone)
	}

	c.logger.Debug().
		Str("to", toPhone).
		Str("sid", msg.SID).
		Str("status", msg.Status).
		Msg("SMS sent")

	return msg.SID, nil
}
