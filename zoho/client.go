// ABOUTME: Zoho CRM adapter with OAuth token lifecycle
// ABOUTME: Translates between Zoho deal records and the canonical Deal model
package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/leduardoseverino/performancy/models"
)

const (
	defaultAccountsURL = "https://accounts.zoho.com"

	// Field selection for deal listing, fixed to the canonical model's needs.
	dealFields = "Deal_Name,Account_Name,Amount,Stage,Probability,Closing_Date,Owner,Created_Time,Modified_Time,Contact_Name,Description"

	// Zoho's maximum page size. Only the first page is fetched; callers see
	// more_records when the account holds more.
	pageSize = 200
)

// Client talks to the Zoho CRM v5 API. It holds no lifecycle beyond the
// config handed to Initialize, which may be called repeatedly.
type Client struct {
	mu          sync.Mutex
	cfg         *models.ZohoConfig
	tokenSource oauth2.TokenSource
	baseURL     string

	httpClient  *http.Client
	accountsURL string
	apiBaseURL  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for both token exchange and
// API calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithAccountsURL overrides the token endpoint host.
func WithAccountsURL(u string) Option {
	return func(c *Client) { c.accountsURL = u }
}

// WithAPIBaseURL overrides the regional API base URL derived from the
// config's domain.
func WithAPIBaseURL(u string) Option {
	return func(c *Client) { c.apiBaseURL = u }
}

// New creates an unconfigured client. Initialize must run before any
// remote operation.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:  http.DefaultClient,
		accountsURL: defaultAccountsURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize stores the config and rebuilds token state. Idempotent: calling
// it again with a new config discards any cached token. The config's cached
// access token is ignored because its expiry is unknown, so the first call
// needing a token performs a refresh regardless.
func (c *Client) Initialize(cfg models.ZohoConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfgCopy := cfg
	c.cfg = &cfgCopy

	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.accountsURL + "/oauth/v2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx := context.Background()
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}
	// The refresh-token grant; oauth2 caches the access token until expiry
	// and refreshes through the same source afterwards.
	c.tokenSource = conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	if c.apiBaseURL != "" {
		c.baseURL = c.apiBaseURL
	} else {
		c.baseURL = fmt.Sprintf("https://www.zohoapis.%s/crm/v5", cfg.Domain)
	}
}

// IsInitialized reports whether Initialize has run with a config.
func (c *Client) IsInitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg != nil
}

// GetAccessToken returns a cached access token, refreshing it through the
// token endpoint when absent or expired.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	ts := c.tokenSource
	c.mu.Unlock()

	if ts == nil {
		return "", ErrNotInitialized
	}

	tok, err := ts.Token()
	if err != nil {
		return "", &AuthError{Err: err}
	}
	return tok.AccessToken, nil
}

// Zoho wire shapes, bit-relevant fields only.

type zohoRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type zohoDeal struct {
	ID           string   `json:"id"`
	DealName     string   `json:"Deal_Name"`
	AccountName  *zohoRef `json:"Account_Name,omitempty"`
	Amount       float64  `json:"Amount"`
	Stage        string   `json:"Stage"`
	Probability  int      `json:"Probability"`
	ClosingDate  string   `json:"Closing_Date"`
	Owner        *zohoRef `json:"Owner,omitempty"`
	CreatedTime  string   `json:"Created_Time"`
	ModifiedTime string   `json:"Modified_Time"`
	ContactName  *zohoRef `json:"Contact_Name,omitempty"`
	Description  string   `json:"Description,omitempty"`
}

type pageInfo struct {
	PerPage     int  `json:"per_page"`
	Count       int  `json:"count"`
	Page        int  `json:"page"`
	MoreRecords bool `json:"more_records"`
}

type dealsResponse struct {
	Data []zohoDeal `json:"data"`
	Info pageInfo   `json:"info"`
}

func mapDeal(zd zohoDeal) models.Deal {
	stage := MapStage(zd.Stage)

	probability := zd.Probability
	if probability == 0 {
		probability = StageProbabilities[stage]
	}

	company := "N/A"
	if zd.AccountName != nil && zd.AccountName.Name != "" {
		company = zd.AccountName.Name
	}

	owner := "Unassigned"
	if zd.Owner != nil && zd.Owner.Name != "" {
		owner = zd.Owner.Name
	}

	deal := models.Deal{
		ID:                zd.ID,
		Name:              zd.DealName,
		Company:           company,
		Value:             zd.Amount,
		Stage:             stage,
		Probability:       probability,
		ExpectedCloseDate: zd.ClosingDate,
		Owner:             owner,
		Notes:             zd.Description,
	}

	if t, err := time.Parse(time.RFC3339, zd.CreatedTime); err == nil {
		deal.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, zd.ModifiedTime); err == nil {
		deal.UpdatedAt = t
	}
	if zd.ContactName != nil {
		deal.Contact = &models.Contact{Name: zd.ContactName.Name}
	}

	return deal
}

// patchToRecord maps the present patch fields to their Zoho equivalents.
// Fields not present stay untouched remotely.
func patchToRecord(patch models.DealPatch) map[string]any {
	record := map[string]any{}
	if patch.Name != nil {
		record["Deal_Name"] = *patch.Name
	}
	if patch.Value != nil {
		record["Amount"] = *patch.Value
	}
	if patch.Stage != nil {
		record["Stage"] = ExternalStage(*patch.Stage)
	}
	if patch.ExpectedCloseDate != nil {
		record["Closing_Date"] = *patch.ExpectedCloseDate
	}
	return record
}

// GetDeals fetches the first page of deals and maps each record to the
// canonical model. The second return reports whether more pages exist
// remotely (pagination beyond the first page is out of scope).
func (c *Client) GetDeals(ctx context.Context) ([]models.Deal, bool, error) {
	params := url.Values{}
	params.Set("fields", dealFields)
	params.Set("per_page", strconv.Itoa(pageSize))

	var resp dealsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/Deals?"+params.Encode(), nil, &resp); err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return nil, false, err
		}
		return nil, false, &FetchError{Err: err}
	}

	deals := make([]models.Deal, 0, len(resp.Data))
	for _, zd := range resp.Data {
		deals = append(deals, mapDeal(zd))
	}
	return deals, resp.Info.MoreRecords, nil
}

// CreateDeal creates a remote deal from the present patch fields and returns
// the mapped-back result.
func (c *Client) CreateDeal(ctx context.Context, patch models.DealPatch) (*models.Deal, error) {
	return c.writeDeal(ctx, http.MethodPost, "/Deals", "create", patch)
}

// UpdateDeal applies a partial update to a remote deal and returns the
// mapped-back result.
func (c *Client) UpdateDeal(ctx context.Context, dealID string, patch models.DealPatch) (*models.Deal, error) {
	return c.writeDeal(ctx, http.MethodPut, "/Deals/"+url.PathEscape(dealID), "update", patch)
}

// UpdateDealStage moves a remote deal to a new stage.
func (c *Client) UpdateDealStage(ctx context.Context, dealID string, stage models.DealStage) (*models.Deal, error) {
	return c.UpdateDeal(ctx, dealID, models.DealPatch{Stage: &stage})
}

func (c *Client) writeDeal(ctx context.Context, method, path, op string, patch models.DealPatch) (*models.Deal, error) {
	body := map[string]any{
		"data": []any{patchToRecord(patch)},
	}

	var resp dealsResponse
	if err := c.doJSON(ctx, method, path, body, &resp); err != nil {
		if errors.Is(err, ErrNotInitialized) {
			return nil, err
		}
		return nil, &WriteError{Op: op, Err: err}
	}
	if len(resp.Data) == 0 {
		return nil, &WriteError{Op: op, Err: errors.New("empty response data")}
	}

	deal := mapDeal(resp.Data[0])
	return &deal, nil
}

// doJSON performs an authenticated API request. Every outbound request
// carries the Zoho-oauthtoken authorization header.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	c.mu.Lock()
	baseURL := c.baseURL
	initialized := c.cfg != nil
	c.mu.Unlock()

	if !initialized {
		return ErrNotInitialized
	}

	token, err := c.GetAccessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, bytes.TrimSpace(detail))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
