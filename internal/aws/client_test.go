package aws

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyLoadOptions(t *testing.T, profile, region string) config.LoadOptions {
	t.Helper()
	var opts config.LoadOptions
	for _, fn := range loadOptions(profile, region) {
		require.NoError(t, fn(&opts))
	}
	return opts
}

func TestLoadOptionsSetsProfileAndRegion(t *testing.T) {
	opts := applyLoadOptions(t, "staging", "eu-west-1")

	assert.Equal(t, "staging", opts.SharedConfigProfile)
	assert.Equal(t, "eu-west-1", opts.Region)
}

func TestLoadOptionsLeavesEmptyValuesUnset(t *testing.T) {
	opts := applyLoadOptions(t, "", "")

	assert.Empty(t, opts.SharedConfigProfile)
	assert.Empty(t, opts.Region)
}
