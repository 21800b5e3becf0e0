// internal/common/aws/aws.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// NewConfig loads the shared AWS SDK configuration for the given region.
func NewConfig(ctx context.Context, region string) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
}

// NewSES builds the SES client used by the email dispatcher.
func NewSES(cfg aws.Config) *ses.Client {
	return ses.NewFromConfig(cfg)
}

// NewSNS builds the SNS client used by the optional real SMS dispatcher.
func NewSNS(cfg aws.Config) *sns.Client {
	return sns.NewFromConfig(cfg)
}
