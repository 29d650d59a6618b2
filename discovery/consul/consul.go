// Package consul provides a discovery backend backed by the HashiCorp
// Consul health API.
package consul

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/hashicorp/consul/api"

	"github.com/kbukum/locus/discovery"
	"github.com/kbukum/locus/logger"
)

func init() {
	discovery.RegisterProviderFactory(discovery.ProviderConsul, func(_ discovery.Config, providerCfg any, log *logger.Logger) (discovery.Discovery, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("consul: expected *consul.Config, got %T", providerCfg)
			}
			c = pc
		}
		return NewProvider(*c, log)
	})
}

// Provider implements discovery.Discovery using Consul.
type Provider struct {
	client *api.Client
	cfg    Config
	log    *logger.Logger
}

var (
	_ discovery.Discovery = (*Provider)(nil)
	_ discovery.Pinger    = (*Provider)(nil)
)

// NewProvider creates a Provider from the given Config.
func NewProvider(cfg Config, log *logger.Logger) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiCfg := api.DefaultConfig()
	apiCfg.Address = cfg.Address
	apiCfg.Scheme = cfg.Scheme
	apiCfg.Token = cfg.Token
	apiCfg.WaitTime = cfg.WaitTime
	if cfg.Datacenter != "" {
		apiCfg.Datacenter = cfg.Datacenter
	}
	if cfg.TLS != nil && cfg.TLS.Enabled {
		apiCfg.TLSConfig = api.TLSConfig{
			Address:            cfg.TLS.ServerName,
			CAFile:             cfg.TLS.CACert,
			CAPath:             cfg.TLS.CAPath,
			CertFile:           cfg.TLS.ClientCert,
			KeyFile:            cfg.TLS.ClientKey,
			InsecureSkipVerify: cfg.TLS.InsecureSkipVerify,
		}
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}

	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Provider{client: client, cfg: cfg, log: log.WithComponent("discovery.consul")}, nil
}

// LookupHealthyAddresses queries the health endpoint for instances whose
// checks are all passing. An unknown service yields an empty list.
func (p *Provider) LookupHealthyAddresses(ctx context.Context, namespace, service string) ([]string, error) {
	q := (&api.QueryOptions{}).WithContext(ctx)
	tag := ""
	switch p.cfg.NamespaceMode {
	case NamespaceModeNamespace:
		q.Namespace = namespace
	case NamespaceModeTag:
		tag = namespace
	}

	entries, _, err := p.client.Health().Service(service, tag, true, q)
	if err != nil {
		return nil, fmt.Errorf("consul lookup %q: %w", service, err)
	}

	addrs := make([]string, 0, len(entries))
	for _, e := range entries {
		if u := p.entryURL(e); u != "" {
			addrs = append(addrs, u)
		}
	}

	p.log.Debug("consul lookup", logger.Fields(
		logger.FieldNamespace, namespace,
		logger.FieldTarget, service,
		logger.FieldCandidates, len(addrs),
	))
	return addrs, nil
}

// Ping checks that the agent has an elected leader.
func (p *Provider) Ping(ctx context.Context) error {
	_, err := p.client.Status().LeaderWithQueryOptions((&api.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return fmt.Errorf("consul ping: %w", err)
	}
	return nil
}

// Close is a no-op; the HTTP client does not require explicit closing.
func (p *Provider) Close() error {
	return nil
}

// entryURL builds scheme://address:port for an instance. The service
// address falls back to the node address.
func (p *Provider) entryURL(e *api.ServiceEntry) string {
	if e.Service == nil {
		return ""
	}
	host := e.Service.Address
	if host == "" && e.Node != nil {
		host = e.Node.Address
	}
	if host == "" {
		return ""
	}

	scheme := p.cfg.ServiceScheme
	if s := e.Service.Meta["scheme"]; s != "" {
		scheme = s
	}
	if e.Service.Port > 0 {
		host = net.JoinHostPort(host, strconv.Itoa(e.Service.Port))
	}
	return scheme + "://" + host
}
