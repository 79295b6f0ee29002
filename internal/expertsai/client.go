package expertsai

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

const (
	apiURL      = "https://experts.ai/ai.unico.platform.rest/api/common/edumatch/318923/opportunity"
	contentType = "application/json"
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger) *Client {
	return &Client{
		ctx:    ctx,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Page fetches a single page of opportunity listings for the given search term.
func (c *Client) Page(term string, page, limit int) ([]*Opportunity, error) {
	q := url.Values{}
	q.Set("query", term)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("includeApplications", "false")

	items, err := c.getItems(c.APIURL, q)
	if err != nil {
		return nil, err
	}

	var listings []*rawListing

	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           &listings,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(items); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	opportunities := make([]*Opportunity, 0, len(listings))
	for _, listing := range listings {
		opportunities = append(opportunities, listing.normalize())
	}

	return opportunities, nil
}

type itemResponse struct {
	Items []item `json:"opportunityPreviewDtos"`
}

type item interface{}

// getItems makes a GET request to the EXPERTS.AI API and returns raw listing items.
func (c *Client) getItems(endpoint string, q url.Values) ([]item, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", contentType)
	req.URL.RawQuery = q.Encode()

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	response, err := c.parseItemResponse(resp)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response from EXPERTS.AI", zap.Int("items", len(response.Items)))

	return response.Items, nil
}

func (c *Client) parseItemResponse(resp *http.Response) (*itemResponse, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	body := io.Reader(resp.Body)
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response *itemResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, err
	}

	if response == nil {
		return &itemResponse{}, nil
	}

	return response, nil
}
