package cloudmap

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicediscovery"
	"github.com/aws/aws-sdk-go-v2/service/servicediscovery/types"

	"github.com/kbukum/locus/discovery"
	"github.com/kbukum/locus/logger"
)

type fakeAPI struct {
	out  *servicediscovery.DiscoverInstancesOutput
	err  error
	last *servicediscovery.DiscoverInstancesInput
}

func (f *fakeAPI) DiscoverInstances(_ context.Context, in *servicediscovery.DiscoverInstancesInput, _ ...func(*servicediscovery.Options)) (*servicediscovery.DiscoverInstancesOutput, error) {
	f.last = in
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func instances(attrs ...map[string]string) *servicediscovery.DiscoverInstancesOutput {
	out := &servicediscovery.DiscoverInstancesOutput{}
	for i, a := range attrs {
		out.Instances = append(out.Instances, types.HttpInstanceSummary{
			InstanceId: aws.String(string(rune('a' + i))),
			Attributes: a,
		})
	}
	return out
}

func TestLookup_BuildsURLs(t *testing.T) {
	fake := &fakeAPI{out: instances(
		map[string]string{"url": "https://back.example.com"},
		map[string]string{AttrInstanceIPv4: "10.0.0.1", AttrInstancePort: "8080"},
		map[string]string{AttrInstanceCNAME: "back.internal"},
		map[string]string{"zone": "a"},
	)}
	p := NewProviderWithAPI(fake, Config{}, logger.NewNop())

	got, err := p.LookupHealthyAddresses(context.Background(), "dimi", "back")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"https://back.example.com", "http://10.0.0.1:8080", "http://back.internal"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if aws.ToString(fake.last.NamespaceName) != "dimi" || aws.ToString(fake.last.ServiceName) != "back" {
		t.Errorf("unexpected input %+v", fake.last)
	}
	if fake.last.HealthStatus != types.HealthStatusFilterHealthy {
		t.Errorf("expected HEALTHY filter, got %q", fake.last.HealthStatus)
	}
	if aws.ToInt32(fake.last.MaxResults) != 100 {
		t.Errorf("expected default max results, got %d", aws.ToInt32(fake.last.MaxResults))
	}
}

func TestLookup_CustomSchemeAndAttribute(t *testing.T) {
	fake := &fakeAPI{out: instances(
		map[string]string{"endpoint": "grpc://back:50051", "url": "ignored"},
		map[string]string{AttrInstanceIPv4: "10.0.0.2"},
	)}
	p := NewProviderWithAPI(fake, Config{Scheme: "https", URLAttribute: "endpoint"}, logger.NewNop())

	got, err := p.LookupHealthyAddresses(context.Background(), "dimi", "back")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "grpc://back:50051" || got[1] != "https://10.0.0.2" {
		t.Fatalf("unexpected addresses %v", got)
	}
}

func TestLookup_NotFoundIsEmpty(t *testing.T) {
	for name, err := range map[string]error{
		"namespace": &types.NamespaceNotFound{Message: aws.String("no namespace")},
		"service":   &types.ServiceNotFound{Message: aws.String("no service")},
	} {
		t.Run(name, func(t *testing.T) {
			p := NewProviderWithAPI(&fakeAPI{err: err}, Config{}, logger.NewNop())
			got, lookupErr := p.LookupHealthyAddresses(context.Background(), "dimi", "back")
			if lookupErr != nil {
				t.Fatalf("unexpected error: %v", lookupErr)
			}
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty non-nil result, got %#v", got)
			}
		})
	}
}

func TestLookup_OtherErrorsPropagate(t *testing.T) {
	boom := errors.New("throttled")
	p := NewProviderWithAPI(&fakeAPI{err: boom}, Config{}, logger.NewNop())

	_, err := p.LookupHealthyAddresses(context.Background(), "dimi", "back")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{}, false},
		{"static credentials", Config{AccessKey: "a", SecretKey: "s"}, false},
		{"access key only", Config{AccessKey: "a"}, true},
		{"too many results", Config{MaxResults: 5000}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.cfg.ApplyDefaults()
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewProvider_StaticCredentials(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{
		Region:    "eu-west-1",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
		Endpoint:  "http://localhost:4566",
	}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.cfg.Region != "eu-west-1" {
		t.Errorf("unexpected region %q", p.cfg.Region)
	}
}

func TestRegisteredFactory(t *testing.T) {
	comp := discovery.NewComponent(discovery.Config{Provider: discovery.ProviderCloudMap}, "not a config", logger.NewNop())
	if err := comp.Start(context.Background()); err == nil {
		t.Fatal("expected error for wrong provider config type")
	}
}
