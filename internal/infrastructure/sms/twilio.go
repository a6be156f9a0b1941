package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/liquidsuites/launch-api/internal/config"
)

// TwilioClient sends SMS through the Twilio Messages REST API.
type TwilioClient struct {
	httpClient *http.Client
	baseURL    string
	accountSID string
	authToken  string
	from       string
}

// NewTwilioClient builds a Gateway backed by Twilio. Returns an error when
// the account credentials or sender number are missing.
func NewTwilioClient(cfg *config.Config) (*TwilioClient, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		return nil, fmt.Errorf("twilio credentials not configured")
	}
	return &TwilioClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    strings.TrimSuffix(cfg.TwilioBaseURL, "/"),
		accountSID: cfg.TwilioAccountSID,
		authToken:  cfg.TwilioAuthToken,
		from:       cfg.TwilioFromNumber,
	}, nil
}

// twilioMessage mirrors the provider's message resource.
type twilioMessage struct {
	SID          string  `json:"sid"`
	Status       string  `json:"status"`
	ErrorCode    *int    `json:"error_code"`
	ErrorMessage *string `json:"error_message"`
}

// twilioAPIError mirrors the provider's error payload on non-2xx responses.
type twilioAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Send submits a message. Submissions that come back queued/sent/sending
// are re-fetched once, because compliance holds are often reported only on
// the stored message resource, not on the create response.
func (c *TwilioClient) Send(ctx context.Context, to, body string) (*Result, error) {
	form := url.Values{
		"To":   {to},
		"From": {c.from},
		"Body": {body},
	}
	msg, err := c.do(ctx, http.MethodPost, c.messagesURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	result := toResult(msg)
	switch result.Status {
	case StatusQueued, StatusSent, StatusSending:
		if result.ErrorCode == 0 {
			// Best effort: a fetch failure leaves the submission result as is.
			if fetched, ferr := c.do(ctx, http.MethodGet, c.messageURL(msg.SID), nil); ferr == nil {
				result = toResult(fetched)
			}
		}
	}
	return result, nil
}

func (c *TwilioClient) do(ctx context.Context, method, endpoint string, body *strings.Reader) (*twilioMessage, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
	}
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &SendError{Kind: FailureOther, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr twilioAPIError
		if derr := json.NewDecoder(resp.Body).Decode(&apiErr); derr != nil {
			apiErr.Message = resp.Status
		}
		return nil, &SendError{
			Kind:       Classify(apiErr.Code, apiErr.Message, resp.StatusCode),
			Code:       apiErr.Code,
			Message:    apiErr.Message,
			HTTPStatus: resp.StatusCode,
		}
	}

	var msg twilioMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode twilio response: %w", err)
	}
	return &msg, nil
}

func (c *TwilioClient) messagesURL() string {
	return fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
}

func (c *TwilioClient) messageURL(sid string) string {
	return fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages/%s.json", c.baseURL, c.accountSID, sid)
}

func toResult(msg *twilioMessage) *Result {
	r := &Result{MessageID: msg.SID, Status: Status(msg.Status)}
	if msg.ErrorCode != nil {
		r.ErrorCode = *msg.ErrorCode
	}
	if msg.ErrorMessage != nil {
		r.ErrorMessage = *msg.ErrorMessage
	}
	return r
}
