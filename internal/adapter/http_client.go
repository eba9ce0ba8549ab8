// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-care-sync/internal/config"
	"github.com/MKhiriev/go-care-sync/internal/logger"
	"github.com/MKhiriev/go-care-sync/models"
)

// tokenExpiryMargin is subtracted from the token expiry when deciding whether
// to re-authenticate before a request.
const tokenExpiryMargin = 30 * time.Second

type httpRemoteAuthority struct {
	client    *resty.Client
	deviceID  string
	accessKey string
	hashKey   string
	logger    *logger.Logger

	mu    sync.RWMutex
	token models.Token
}

// NewHTTPRemoteAuthority constructs an HTTP/REST implementation of
// [RemoteAuthority]. It normalises the base URL from adapterCfg.BaseURL and
// configures the underlying client with the resolved base URL and request
// timeout.
func NewHTTPRemoteAuthority(adapterCfg config.Adapter, appCfg config.App, log *logger.Logger) (RemoteAuthority, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	timeout := adapterCfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpRemoteAuthority{
		client:    client,
		deviceID:  appCfg.DeviceID,
		accessKey: appCfg.AccessKey,
		hashKey:   appCfg.HashKey,
		logger:    log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	return strings.TrimRight(raw, "/"), nil
}

// SignIn implements [RemoteAuthority]. It POSTs the device credentials to
// POST /api/auth/device and stores the bearer token from the Authorization
// response header together with its parsed expiry.
func (h *httpRemoteAuthority) SignIn(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.SignInRequest{DeviceID: h.deviceID, AccessKey: h.accessKey}).
		Post("/api/auth/device")
	if err != nil {
		return fmt.Errorf("%w: sign in request: %s", ErrTransient, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	signed, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("sign in parse bearer token: %w", err)
	}

	h.mu.Lock()
	h.token = models.Token{
		SignedString: signed,
		ExpiresAt:    parseTokenExpiry(signed),
	}
	h.mu.Unlock()

	h.logger.Debug().
		Str("func", "httpRemoteAuthority.SignIn").
		Str("device_id", h.deviceID).
		Msg("device authenticated")
	return nil
}

// Send implements [RemoteAuthority]. It POSTs the record to
// POST /api/sync/records and decodes the acknowledgement. On HTTP 409 the
// returned error is a [*ConflictError] carrying the decoded server state.
func (h *httpRemoteAuthority) Send(ctx context.Context, item models.SyncItem) (models.ServerRecord, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(h.sendRequest(item)).
		Post("/api/sync/records")
	if err != nil {
		return models.ServerRecord{}, fmt.Errorf("%w: send request: %s", ErrTransient, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ServerRecord{}, err
	}

	var record models.ServerRecord
	if err = json.Unmarshal(resp.Body(), &record); err != nil {
		return models.ServerRecord{}, fmt.Errorf("%w: decode send response: %s", ErrTransient, err)
	}
	return record, nil
}

// ForceOverride implements [RemoteAuthority]. It POSTs the record to
// POST /api/sync/records/override, instructing the backend to replace its
// state with the client payload regardless of divergence.
func (h *httpRemoteAuthority) ForceOverride(ctx context.Context, item models.SyncItem) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(h.sendRequest(item)).
		Post("/api/sync/records/override")
	if err != nil {
		return fmt.Errorf("%w: override request: %s", ErrTransient, err)
	}
	return mapHTTPError(resp)
}

func (h *httpRemoteAuthority) sendRequest(item models.SyncItem) models.SendRequest {
	req := models.SendRequest{
		ID:         item.ID,
		DataType:   item.DataType,
		SessionID:  item.SessionID,
		Payload:    item.Payload,
		Timestamp:  item.Timestamp,
		RetryCount: item.RetryCount,
	}
	req.Hash = computeTransportHash(item.Payload, h.hashKey)
	return req
}

// authedRequest builds a request carrying the bearer token, re-authenticating
// first when the stored token is missing or near expiry.
func (h *httpRemoteAuthority) authedRequest(ctx context.Context) *resty.Request {
	h.mu.RLock()
	token := h.token
	h.mu.RUnlock()

	if token.SignedString == "" || time.Until(token.ExpiresAt) < tokenExpiryMargin {
		if err := h.SignIn(ctx); err != nil {
			h.logger.Warn().
				Str("func", "httpRemoteAuthority.authedRequest").
				Err(err).
				Msg("re-authentication failed, proceeding with stored token")
		} else {
			h.mu.RLock()
			token = h.token
			h.mu.RUnlock()
		}
	}

	req := h.client.R().SetContext(ctx)
	if token.SignedString != "" {
		req.SetHeader("Authorization", "Bearer "+token.SignedString)
	}
	return req
}

// mapHTTPError translates a backend response into the package's error
// taxonomy. 2xx → nil, 409 → *ConflictError, 400/422 → ErrPermanent,
// 401 → ErrUnauthorized, everything else → ErrTransient.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	switch code {
	case http.StatusConflict:
		var cr models.ConflictResponse
		if err := json.Unmarshal(resp.Body(), &cr); err != nil {
			// тело конфликта нечитаемо: повторная отправка воспроизведёт его
			return fmt.Errorf("%w: undecodable conflict body: %s", ErrTransient, err)
		}
		return &ConflictError{
			ServerPayload:   cr.ServerPayload,
			ServerTimestamp: cr.ServerTimestamp,
		}
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: http %d: %s", ErrPermanent, code, body)
	default:
		return fmt.Errorf("%w: http %d: %s", ErrTransient, code, body)
	}
}

func parseBearerToken(value string) (string, error) {
	parts := strings.Split(strings.TrimSpace(value), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}

// parseTokenExpiry extracts the exp claim without verifying the signature;
// the client only needs it to schedule re-authentication. A token without a
// readable expiry is treated as already expired so every request re-signs.
func parseTokenExpiry(tokenString string) time.Time {
	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func computeTransportHash(v any, key string) string {
	if key == "" {
		return ""
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
