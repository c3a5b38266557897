package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"acacia-hotel-backend/config"
)

var ErrInvalidPhone = errors.New("phone number must be a valid Kenyan mobile number")

var kenyanMobile = regexp.MustCompile(`^254(7|1)\d{8}$`)

// NormalizePhone converts "+254 712 345 678", "0712345678" or "712345678"
// to the single "2547XXXXXXXX" format the gateway expects.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(s)
	s = strings.TrimPrefix(s, "+")

	switch {
	case strings.HasPrefix(s, "254"):
		// already international
	case strings.HasPrefix(s, "0"):
		s = "254" + s[1:]
	case strings.HasPrefix(s, "7") || strings.HasPrefix(s, "1"):
		s = "254" + s
	}

	if !kenyanMobile.MatchString(s) {
		return "", ErrInvalidPhone
	}
	return s, nil
}

// stkPassword derives the request password the gateway mandates:
// base64(shortcode + passkey + timestamp).
func stkPassword(shortCode, passkey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
}

// MpesaService wraps the Daraja STK push API: a client-credentials token
// exchange followed by the payment request. Single attempt, no retry; a
// gateway stall is bounded only by the client timeout.
type MpesaService struct {
	Cfg    config.MpesaConfig
	Client *http.Client
	Log    zerolog.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewMpesaService(cfg config.MpesaConfig, logg zerolog.Logger) *MpesaService {
	return &MpesaService{
		Cfg:    cfg,
		Client: &http.Client{Timeout: 30 * time.Second},
		Log:    logg,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// getAccessToken exchanges the consumer key/secret for a short-lived token,
// cached until shortly before expiry.
func (s *MpesaService) getAccessToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" && time.Now().Before(s.tokenExpiry) {
		return s.accessToken, nil
	}

	endpoint := strings.TrimRight(s.Cfg.BaseURL, "/") + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("cannot build token request: %w", err)
	}
	req.SetBasicAuth(s.Cfg.ConsumerKey, s.Cfg.ConsumerSecret)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("token HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var tr tokenResponse
	if err := json.Unmarshal(bodyBytes, &tr); err != nil {
		return "", fmt.Errorf("token JSON parse error: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("empty access token in response: %s", string(bodyBytes))
	}

	ttl := 3600
	if n, err := strconv.Atoi(tr.ExpiresIn); err == nil && n > 0 {
		ttl = n
	}
	s.accessToken = tr.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(ttl-60) * time.Second)

	return s.accessToken, nil
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// InitiateSTKPush sends a payment prompt to the guest's phone. amount is in
// whole KES; reference shows up on the customer's statement.
func (s *MpesaService) InitiateSTKPush(phone string, amount float64, reference, description string) (*STKPushResponse, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	token, err := s.getAccessToken()
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	payload := map[string]interface{}{
		"BusinessShortCode": s.Cfg.ShortCode,
		"Password":          stkPassword(s.Cfg.ShortCode, s.Cfg.Passkey, timestamp),
		"Timestamp":         timestamp,
		"TransactionType":   "CustomerPayBillOnline",
		"Amount":            int64(amount),
		"PartyA":            normalized,
		"PartyB":            s.Cfg.ShortCode,
		"PhoneNumber":       normalized,
		"CallBackURL":       s.Cfg.CallbackURL,
		"AccountReference":  reference,
		"TransactionDesc":   description,
	}
	b, _ := json.Marshal(payload)

	endpoint := strings.TrimRight(s.Cfg.BaseURL, "/") + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out STKPushResponse
	if err := json.Unmarshal(bodyBytes, &out); err != nil {
		return nil, fmt.Errorf("JSON parse error: %w", err)
	}
	if out.ResponseCode != "0" {
		return nil, fmt.Errorf("gateway rejected request: %s - %s", out.ResponseCode, out.ResponseDescription)
	}

	s.Log.Info().Str("phone", normalized).Str("checkout_request_id", out.CheckoutRequestID).Msg("stk push initiated")
	return &out, nil
}
