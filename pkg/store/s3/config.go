// SPDX-License-Identifier: Apache-2.0

package s3

import "errors"

type Config struct {
	Bucket string
	Region string
	// Endpoint overrides the default S3 endpoint, for S3 compatible stores.
	// Path style addressing is used when set.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// Prefix is prepended to every object key.
	Prefix string
}

const defaultRegion = "us-east-1"

var errBucketRequired = errors.New("s3 store: bucket must be provided")

func (c *Config) region() string {
	if c.Region == "" {
		return defaultRegion
	}
	return c.Region
}
