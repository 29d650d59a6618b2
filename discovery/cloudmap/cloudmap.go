// Package cloudmap provides a discovery backend backed by AWS Cloud Map.
package cloudmap

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/servicediscovery"
	"github.com/aws/aws-sdk-go-v2/service/servicediscovery/types"

	"github.com/kbukum/locus/discovery"
	"github.com/kbukum/locus/logger"
)

// Instance attributes registered by Cloud Map.
const (
	AttrInstanceIPv4  = "AWS_INSTANCE_IPV4"
	AttrInstanceCNAME = "AWS_INSTANCE_CNAME"
	AttrInstancePort  = "AWS_INSTANCE_PORT"
)

func init() {
	discovery.RegisterProviderFactory(discovery.ProviderCloudMap, func(_ discovery.Config, providerCfg any, log *logger.Logger) (discovery.Discovery, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("cloudmap: expected *cloudmap.Config, got %T", providerCfg)
			}
			c = pc
		}
		return NewProvider(context.Background(), *c, log)
	})
}

// API is the subset of the Cloud Map client used by Provider.
type API interface {
	DiscoverInstances(ctx context.Context, in *servicediscovery.DiscoverInstancesInput, optFns ...func(*servicediscovery.Options)) (*servicediscovery.DiscoverInstancesOutput, error)
}

// Provider implements discovery.Discovery using Cloud Map.
type Provider struct {
	api API
	cfg Config
	log *logger.Logger
}

var _ discovery.Discovery = (*Provider)(nil)

// NewProvider loads AWS configuration and creates a Cloud Map client.
func NewProvider(ctx context.Context, cfg Config, log *logger.Logger) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cloudmap: load aws config: %w", err)
	}

	var sdOpts []func(*servicediscovery.Options)
	if cfg.Endpoint != "" {
		sdOpts = append(sdOpts, func(o *servicediscovery.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return NewProviderWithAPI(servicediscovery.NewFromConfig(awsCfg, sdOpts...), cfg, log), nil
}

// NewProviderWithAPI creates a Provider over an existing client.
func NewProviderWithAPI(api API, cfg Config, log *logger.Logger) *Provider {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Provider{api: api, cfg: cfg, log: log.WithComponent("discovery.cloudmap")}
}

// LookupHealthyAddresses returns a URL for every HEALTHY instance of
// service in namespace. A missing namespace or service yields an empty list.
func (p *Provider) LookupHealthyAddresses(ctx context.Context, namespace, service string) ([]string, error) {
	out, err := p.api.DiscoverInstances(ctx, &servicediscovery.DiscoverInstancesInput{
		NamespaceName: aws.String(namespace),
		ServiceName:   aws.String(service),
		HealthStatus:  types.HealthStatusFilterHealthy,
		MaxResults:    aws.Int32(p.cfg.MaxResults),
	})
	if err != nil {
		var nsErr *types.NamespaceNotFound
		var svcErr *types.ServiceNotFound
		if errors.As(err, &nsErr) || errors.As(err, &svcErr) {
			p.log.Debug("cloudmap target not found", logger.Fields(
				logger.FieldNamespace, namespace,
				logger.FieldTarget, service,
			))
			return []string{}, nil
		}
		return nil, fmt.Errorf("cloudmap discover %s/%s: %w", namespace, service, err)
	}

	addrs := make([]string, 0, len(out.Instances))
	for _, inst := range out.Instances {
		if u := p.instanceURL(inst.Attributes); u != "" {
			addrs = append(addrs, u)
		}
	}
	return addrs, nil
}

// Close is a no-op.
func (p *Provider) Close() error { return nil }

func (p *Provider) instanceURL(attrs map[string]string) string {
	if u := attrs[p.cfg.URLAttribute]; u != "" {
		return u
	}
	host := attrs[AttrInstanceIPv4]
	if host == "" {
		host = attrs[AttrInstanceCNAME]
	}
	if host == "" {
		return ""
	}
	if port := attrs[AttrInstancePort]; port != "" {
		host += ":" + port
	}
	return p.cfg.Scheme + "://" + host
}
