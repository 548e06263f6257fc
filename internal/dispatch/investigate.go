package dispatch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

// Action is the request body of the investigation endpoint.
type Action struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

// InvestigationClient posts alert-failure investigations to the external
// investigation service, authenticated with a static API key.
type InvestigationClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewInvestigationClient builds the client. TLS certificate verification is
// on unless insecureTLS is set, which is only for development environments
// with self-signed certificates and is logged loudly.
func NewInvestigationClient(baseURL, apiKey string, insecureTLS bool) *InvestigationClient {
	transport := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout: 30 * time.Second,
	}
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		log.Printf("investigation: TLS certificate verification DISABLED by configuration; do not use in production")
	}
	return &InvestigationClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   120 * time.Second,
			Transport: transport,
		},
	}
}

// Investigate sends the action and returns the service's result text. When
// the response carries no result field a default "no issues detected"
// message is synthesized from the request parameters.
func (c *InvestigationClient) Investigate(ctx context.Context, farmID, animalID int, event AlertType, date, timeOfDay string) (string, error) {
	action := Action{
		Action: "INVESTIGATE_ALERT_FAILURE",
		Parameters: map[string]any{
			"farm_id":        farmID,
			"animal_id":      animalID,
			"expected_event": string(event),
			"date":           date,
			"time":           timeOfDay,
		},
	}

	b, err := json.Marshal(action)
	if err != nil {
		return "", fmt.Errorf("build request payload: %w", err)
	}

	url := c.BaseURL + "/data/investigateissue"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected response code %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Result string `json:"result"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		log.Printf("investigation: unable to parse response body: %v", err)
	}
	if decoded.Result != "" {
		return decoded.Result, nil
	}

	return fmt.Sprintf("Cow #%d on farm #%d checked for %s on %s at %s - no issues detected.",
		animalID, farmID, event, date, timeOfDay), nil
}
