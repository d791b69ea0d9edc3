package utils

import (
	"strings"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

// FlagSource resolves static feature flags at start-up. Flags come from
// LaunchDarkly when an SDK key is configured and from upper-cased
// environment variables otherwise (validate_phone_with_twilio reads
// VALIDATE_PHONE_WITH_TWILIO).
type FlagSource struct {
	client *ld.LDClient
	ctx    ldcontext.Context
}

// NewFlagSource connects to LaunchDarkly if sdkKey is non-empty. A client
// that fails to initialise in time is closed and the env fallback is used.
func NewFlagSource(sdkKey, contextKind, contextKey string, timeout time.Duration) *FlagSource {
	fs := &FlagSource{}
	if sdkKey == "" {
		Logger.Info("LD_SDK_KEY not set; reading feature flags from environment")
		return fs
	}
	client, err := ld.MakeClient(sdkKey, timeout)
	if err != nil || !client.Initialized() {
		Logger.WithError(err).Warn("LaunchDarkly client failed to initialize; reading feature flags from environment")
		if client != nil {
			_ = client.Close()
		}
		return fs
	}
	fs.client = client
	fs.ctx = ldcontext.NewWithKind(ldcontext.Kind(contextKind), contextKey)
	return fs
}

func (f *FlagSource) Bool(key string, def bool) bool {
	if f.client != nil {
		v, err := f.client.BoolVariation(key, f.ctx, def)
		if err != nil {
			Logger.WithError(err).Warnf("Error retrieving %s flag", key)
		}
		Logger.Debugf("%s flag: %t", key, v)
		return v
	}
	return EnvBool(flagEnvKey(key), def)
}

func (f *FlagSource) String(key, def string) string {
	if f.client != nil {
		v, err := f.client.StringVariation(key, f.ctx, def)
		if err != nil {
			Logger.WithError(err).Warnf("Error retrieving %s flag", key)
		}
		Logger.Debugf("%s flag: %s", key, v)
		return v
	}
	return EnvOr(flagEnvKey(key), def)
}

func (f *FlagSource) Close() {
	if f.client != nil {
		_ = f.client.Close()
	}
}

func flagEnvKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
