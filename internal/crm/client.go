package crm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.nadlan-crm.co.il"
	userAgent = "nadlan-crm/brokerctl"
	// The backend caps list responses at 1000 records.
	listLimit = 1000

	propertiesPath = "/properties"
	buyersPath     = "/buyers"
	matchesPath    = "/matches"
	leadsPath      = "/marketing_leads"
	contactsPath   = "/contacts"
)

type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

func listQuery() url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(listLimit))
	return q
}

func (c *Client) ListProperties() (*Properties, error) {
	var items []*Property
	if err := c.listEntities(propertiesPath, listQuery(), &items); err != nil {
		return nil, err
	}

	return &Properties{Items: items}, nil
}

func (c *Client) ListBuyers() (*Buyers, error) {
	var items []*Buyer
	if err := c.listEntities(buyersPath, listQuery(), &items); err != nil {
		return nil, err
	}

	return &Buyers{Items: items}, nil
}

func (c *Client) ListMatches() (*Matches, error) {
	var items []*Match
	if err := c.listEntities(matchesPath, listQuery(), &items); err != nil {
		return nil, err
	}

	return &Matches{Items: items}, nil
}

func (c *Client) ListLeads() (*Leads, error) {
	var items []*Lead
	if err := c.listEntities(leadsPath, listQuery(), &items); err != nil {
		return nil, err
	}

	return &Leads{Items: items}, nil
}

func (c *Client) ListContacts() (*Contacts, error) {
	var items []*Contact
	if err := c.listEntities(contactsPath, listQuery(), &items); err != nil {
		return nil, err
	}

	return &Contacts{Items: items}, nil
}

// CreateLead posts a single lead record. The record is a remapped CSV row, so
// only the columns present in the file end up on the wire.
func (c *Client) CreateLead(record map[string]any) error {
	return c.postJSON(c.APIURL+leadsPath, record, nil)
}

// BulkCreateMatches persists all matches in one call. The backend treats the
// batch as a single write: on error nothing is created.
func (c *Client) BulkCreateMatches(matches *Matches) error {
	return c.postJSON(c.APIURL+matchesPath+"/bulk", matches.Items, nil)
}

func (c *Client) Update(entity string, id int, patch map[string]any) error {
	u := c.APIURL + "/" + entity + "/" + strconv.Itoa(id)
	return c.putJSON(u, patch, nil)
}

func (c *Client) Delete(entity string, id int) error {
	u := c.APIURL + "/" + entity + "/" + strconv.Itoa(id)
	return c.delete(u)
}
