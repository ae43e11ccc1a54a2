package doordash

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/httpx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

const (
	DefaultURL = "https://openapi.doordash.com/drive/v2/deliveries"
	tokenTTL   = 3 * time.Minute
)

type Config struct {
	URL           string
	DeveloperID   string
	KeyID         string
	SigningSecret string
	Timeout       time.Duration
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.DeveloperID) != "" &&
		strings.TrimSpace(c.KeyID) != "" &&
		strings.TrimSpace(c.SigningSecret) != ""
}

type DeliveryRequest struct {
	PickupAddress      string
	PickupBusinessName string
	PickupPhone        string
	PickupReferenceTag string
	DropoffAddress     string
	DropoffName        string
	DropoffPhone       string
	OrderValueCents    int64
}

type Delivery struct {
	ExternalDeliveryID string         `json:"external_delivery_id"`
	Raw                map[string]any `json:"raw"`
}

type Client interface {
	CreateDelivery(ctx context.Context, req DeliveryRequest) (*Delivery, error)
}

type client struct {
	log    *logger.Logger
	cfg    Config
	secret []byte
	http   *http.Client
	now    func() time.Time
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if !cfg.Enabled() {
		return nil, fmt.Errorf("doordash credentials not configured")
	}
	secret, err := decodeSecret(cfg.SigningSecret)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.URL) == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &client{
		log:    log.With("client", "DoorDash"),
		cfg:    cfg,
		secret: secret,
		http:   &http.Client{Timeout: cfg.Timeout},
		now:    time.Now,
	}, nil
}

// The signing secret is distributed as unpadded base64url.
func decodeSecret(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode doordash signing secret: %w", err)
	}
	return b, nil
}

func (c *client) token() (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"aud": "doordash",
		"iss": c.cfg.DeveloperID,
		"kid": c.cfg.KeyID,
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"jti": uuid.NewString(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tok.Header["dd-ver"] = "DD-JWT-V1"
	tok.Header["kid"] = c.cfg.KeyID
	return tok.SignedString(c.secret)
}

func (c *client) CreateDelivery(ctx context.Context, req DeliveryRequest) (*Delivery, error) {
	if strings.TrimSpace(req.DropoffAddress) == "" || strings.TrimSpace(req.PickupAddress) == "" {
		return nil, fmt.Errorf("pickup and dropoff addresses required")
	}
	signed, err := c.token()
	if err != nil {
		return nil, fmt.Errorf("sign doordash jwt: %w", err)
	}

	externalID := "d-" + uuid.NewString()
	given, family := splitName(req.DropoffName)
	payload := map[string]any{
		"external_delivery_id":               externalID,
		"pickup_address":                     req.PickupAddress,
		"pickup_business_name":               req.PickupBusinessName,
		"pickup_phone_number":                req.PickupPhone,
		"pickup_reference_tag":               req.PickupReferenceTag,
		"dropoff_address":                    req.DropoffAddress,
		"dropoff_business_name":              req.DropoffName,
		"dropoff_phone_number":               req.DropoffPhone,
		"dropoff_instructions":               "Call on arrival",
		"dropoff_contact_given_name":         given,
		"dropoff_contact_family_name":        family,
		"dropoff_contact_send_notifications": true,
		"scheduling_model":                   "asap",
		"currency":                           "USD",
		"contactless_dropoff":                false,
		"action_if_undeliverable":            "return_to_pickup",
	}
	if req.OrderValueCents > 0 {
		payload["order_value"] = req.OrderValueCents
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+signed)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("doordash request: %w", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("doordash create delivery failed", "status", resp.StatusCode, "external_delivery_id", externalID)
		return nil, &httpx.StatusError{Service: "doordash", StatusCode: resp.StatusCode, Body: string(raw)}
	}

	out := &Delivery{ExternalDeliveryID: externalID, Raw: map[string]any{}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out.Raw); err != nil {
			return nil, fmt.Errorf("decode doordash response: %w", err)
		}
	}
	c.log.Info("doordash delivery created", "external_delivery_id", externalID)
	return out, nil
}

func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], fields[len(fields)-1]
}
