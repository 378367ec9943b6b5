package proxy

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"resty.dev/v3"
)

// ProxySupplier hands out working proxies in round-robin order.
type ProxySupplier interface {
	Get() string
}

type proxySupplier struct {
	proxies []string
	current int
	mutex   sync.Mutex
}

// NewProxySupplier keeps the proxies that can reach testURL. Proxies are
// probed in parallel; the configured order is preserved.
func NewProxySupplier(ctx context.Context, proxies []string, testURL string) ProxySupplier {
	if len(proxies) == 0 {
		return &proxySupplier{}
	}

	log.Infof("🔄 Testing %d proxies against %s...", len(proxies), testURL)

	working := make([]bool, len(proxies))
	g := new(errgroup.Group)
	g.SetLimit(10)
	for i, proxyURL := range proxies {
		g.Go(func() error {
			working[i] = isProxyValid(ctx, proxyURL, testURL)
			return nil
		})
	}
	_ = g.Wait()

	valid := make([]string, 0, len(proxies))
	for i, proxyURL := range proxies {
		if working[i] {
			valid = append(valid, proxyURL)
		} else {
			log.Warnf("⚠️ Proxy %s is not working, skipping", proxyURL)
		}
	}

	log.Infof("✅ Proxy supplier ready with %d of %d proxies", len(valid), len(proxies))
	return &proxySupplier{proxies: valid}
}

// Get returns the next proxy URL, or "" when none are available.
func (p *proxySupplier) Get() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}

	proxy := p.proxies[p.current]
	p.current = (p.current + 1) % len(p.proxies)
	return proxy
}

func isProxyValid(ctx context.Context, proxyURL, testURL string) bool {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(0).
		SetProxy(proxyURL)
	defer client.Close()

	resp, err := client.R().
		SetContext(ctx).
		Head(testURL)
	if err != nil {
		log.Debugf("Proxy test failed for %s: %v", proxyURL, err)
		return false
	}
	if resp.IsError() {
		log.Debugf("Proxy test failed for %s with status: %s", proxyURL, resp.Status())
		return false
	}
	return true
}
