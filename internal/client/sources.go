package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront/catalog/internal/config"
	"storefront/catalog/internal/domain"
	"storefront/catalog/internal/proxy"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

// SourceClient fetches a published tabular source and lexes it into rows.
type SourceClient interface {
	FetchRows(ctx context.Context, url string) ([]domain.Row, error)
	Close() error
}

type sourceClient struct {
	cfg           config.SourcesConfig
	parser        TableParser
	proxySupplier proxy.ProxySupplier

	mutex   sync.Mutex
	clients map[string]*resty.Client
}

// NewSourceClient builds a client for the configured source format. Fetches
// are never retried: a failed source fails the run. With a proxy supplier
// every fetch goes through the next proxy it hands out.
func NewSourceClient(cfg config.SourcesConfig, proxySupplier proxy.ProxySupplier) (SourceClient, error) {
	parser, err := NewTableParser(cfg.Format)
	if err != nil {
		return nil, err
	}

	return &sourceClient{
		cfg:           cfg,
		parser:        parser,
		proxySupplier: proxySupplier,
		clients:       make(map[string]*resty.Client),
	}, nil
}

func (c *sourceClient) FetchRows(ctx context.Context, url string) ([]domain.Row, error) {
	text, err := c.fetchText(ctx, url)
	if err != nil {
		return nil, err
	}

	rows, err := c.parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source %s: %w", url, err)
	}

	log.Debugf("Fetched %d rows from %s", len(rows), url)
	return rows, nil
}

func (c *sourceClient) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var errs []error
	for proxyURL, client := range c.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(c.clients, proxyURL)
	}
	return errors.Join(errs...)
}

// httpClient returns the client bound to the next proxy, or the direct
// client ("" key) when no proxy is available.
func (c *sourceClient) httpClient() *resty.Client {
	proxyURL := ""
	if c.proxySupplier != nil {
		proxyURL = c.proxySupplier.Get()
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if client, ok := c.clients[proxyURL]; ok {
		return client
	}

	client := resty.New().
		SetTimeout(time.Duration(c.cfg.Timeout)*time.Second).
		SetRetryCount(0).
		SetHeader("User-Agent", "storefront-catalog-builder/1.0").
		SetHeader("Accept", "text/csv,text/html;q=0.9,*/*;q=0.8")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
		log.Infof("🔗 Using proxy for source fetches: %s", proxyURL)
	}
	c.clients[proxyURL] = client
	return client
}

func (c *sourceClient) fetchText(ctx context.Context, url string) (string, error) {
	resp, err := c.httpClient().R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	if resp.IsError() {
		return "", fmt.Errorf("HTTP error fetching %s: %d %s", url, resp.StatusCode(), resp.Status())
	}

	return resp.String(), nil
}
