package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HTTPPricer struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPPricer(endpoint, apiKey string) *HTTPPricer {
	return &HTTPPricer{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type estimateRequest struct {
	ImageURL string `json:"image_url"`
}

type estimateResponse struct {
	Price       string `json:"price"`
	Description string `json:"description"`
	Error       *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *HTTPPricer) Estimate(ctx context.Context, imageURL string) (*Estimate, error) {
	jsonData, err := json.Marshal(estimateRequest{ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("%w: marshaling request: %v", ErrPricingUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", ErrPricingUnavailable, err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPricingUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrPricingUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: estimator returned status %d", ErrPricingUnavailable, resp.StatusCode)
	}

	var estResp estimateResponse
	if err := json.Unmarshal(body, &estResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %v", ErrPricingUnavailable, err)
	}

	if estResp.Error != nil {
		return nil, fmt.Errorf("%w: estimator error: %s", ErrPricingUnavailable, estResp.Error.Message)
	}

	return &Estimate{
		Price:       estResp.Price,
		Description: estResp.Description,
	}, nil
}
