package jsearch

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

const (
	SearchPath = "/search"

	defaultPage       = 1
	defaultNumPages   = 1
	defaultDatePosted = "all"
	defaultCountry    = "in"
	defaultLanguage   = "en"
)

type SearchParams struct {
	Query string `yaml:"query"`
	// jsparam is a custom tag for reflect. Please see buildParams.
	Page       int    `yaml:"page"`
	NumPages   int    `jsparam:"num_pages" yaml:"num_pages" mapstructure:"num-pages"`
	DatePosted string `jsparam:"date_posted" yaml:"date_posted" mapstructure:"date-posted"`
	Country    string `yaml:"country"`
	Language   string `yaml:"language"`
}

func (p *SearchParams) normalize() {
	if p.Page <= 0 {
		p.Page = defaultPage
	}
	if p.NumPages <= 0 {
		p.NumPages = defaultNumPages
	}
	if strings.TrimSpace(p.DatePosted) == "" {
		p.DatePosted = defaultDatePosted
	}
	if strings.TrimSpace(p.Country) == "" {
		p.Country = defaultCountry
	}
	if strings.TrimSpace(p.Language) == "" {
		p.Language = defaultLanguage
	}
}

func (c *Client) search(params *SearchParams) *Postings {
	if params == nil {
		params = &SearchParams{}
	}
	params.normalize()

	q := buildParams(params)
	searchURL := fmt.Sprintf("%s%s", c.APIURL, SearchPath)

	c.logger.Debug("query being sent to provider", zap.String("query", params.Query))

	var response searchResponse
	if err := c.getJSON(searchURL, q, &response); err != nil {
		c.logger.Warn("fetching postings failed, returning no results", zap.Error(err))
		return &Postings{}
	}

	items := make([]Posting, 0, len(response.Data))
	for _, item := range response.Data {
		items = append(items, Posting(item))
	}

	return &Postings{Items: items}
}

func buildParams(params *SearchParams) url.Values {
	q := url.Values{}
	fields := reflect.VisibleFields(reflect.TypeOf(*params))
	for _, field := range fields {
		// Our custom tag is using here.
		key := field.Tag.Get("jsparam")
		if key == "" {
			// Failover to default tag if our tag do not exist.
			key = field.Tag.Get("yaml")
		}

		value := fmt.Sprintf("%v", reflect.ValueOf(params).Elem().Field(field.Index[0]).Interface())
		if value != "" && value != "0" {
			q.Set(key, value)
		}
	}

	return q
}
