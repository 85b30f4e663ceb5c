package availability

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"huduma/config"
	"huduma/models"

	"github.com/go-resty/resty/v2"
)

// Client talks to the availability source for service time slots.
type Client struct {
	http *resty.Client
}

// NewClient builds an availability client against the configured endpoint.
func NewClient() *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(config.AppConfig.AvailabilityServiceURL).
			SetTimeout(10 * time.Second),
	}
}

// NewClientWithBaseURL builds an availability client for a specific endpoint.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.http.SetBaseURL(baseURL)
	return c
}

type slotsResponse struct {
	Slots []models.Slot `json:"slots"`
}

// GetAvailableSlots returns the open slots for a service on a date. The
// duration hint lets the source filter windows too short for the job.
func (c *Client) GetAvailableSlots(ctx context.Context, serviceID, date string, durationMins int) ([]models.Slot, error) {
	var result slotsResponse
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", date).
		SetResult(&result)
	if durationMins > 0 {
		req.SetQueryParam("duration", strconv.Itoa(durationMins))
	}

	resp, err := req.Get(fmt.Sprintf("/api/services/%s/slots", serviceID))
	if err != nil {
		return nil, fmt.Errorf("slot lookup request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("slot lookup returned %d: %s", resp.StatusCode(), resp.String())
	}
	return result.Slots, nil
}
