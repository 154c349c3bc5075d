package cmd

import (
	"net/http"

	keelhttp "github.com/foomo/keel/net/http"
	"github.com/foomo/sitegen/pkg/billing"
	"github.com/foomo/sitegen/pkg/genai"
	"github.com/foomo/sitegen/pkg/generator"
	"github.com/foomo/sitegen/pkg/vercel"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func newVendorHTTPClient(v *viper.Viper) *http.Client {
	return keelhttp.NewHTTPClient(
		keelhttp.HTTPClientWithTimeout(vendorTimeoutFlag(v)),
		keelhttp.HTTPClientWithTelemetry(),
	)
}

// newGenerator returns nil without an api key
func newGenerator(l *zap.Logger, v *viper.Viper, httpClient *http.Client) (*generator.Generator, error) {
	if geminiAPIKeyFlag(v) == "" {
		l.Warn("generation disabled: GEMINI_API_KEY not set")
		return nil, nil
	}
	provider, err := genai.New(l, geminiAPIKeyFlag(v),
		genai.WithBaseURL(geminiBaseURLFlag(v)),
		genai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}
	return generator.New(l, provider,
		generator.WithTextModel(textModelFlag(v)),
		generator.WithImageModel(imageModelFlag(v)),
		generator.WithStatusInterval(statusIntervalFlag(v)),
	), nil
}

func newVercel(l *zap.Logger, v *viper.Viper, httpClient *http.Client) *vercel.Client {
	if vercelTokenFlag(v) == "" {
		l.Warn("deployments and domains disabled: VERCEL_TOKEN not set")
	}
	return vercel.New(l, vercelTokenFlag(v),
		vercel.WithTeamID(vercelTeamIDFlag(v)),
		vercel.WithBaseURL(vercelBaseURLFlag(v)),
		vercel.WithHTTPClient(httpClient),
	)
}

func newStripe(l *zap.Logger, v *viper.Viper, httpClient *http.Client) *billing.Stripe {
	if stripeSecretKeyFlag(v) == "" {
		l.Warn("payments disabled: STRIPE_SECRET_KEY not set")
	}
	return billing.NewStripe(l, stripeSecretKeyFlag(v),
		billing.StripeWithBaseURL(stripeBaseURLFlag(v)),
		billing.StripeWithHTTPClient(httpClient),
	)
}

func addVendorFlags(flags *pflag.FlagSet, v *viper.Viper) {
	addGeminiAPIKeyFlag(flags, v)
	addGeminiBaseURLFlag(flags, v)
	addTextModelFlag(flags, v)
	addImageModelFlag(flags, v)
	addStatusIntervalFlag(flags, v)
	addStripeSecretKeyFlag(flags, v)
	addStripeBaseURLFlag(flags, v)
	addVercelTokenFlag(flags, v)
	addVercelTeamIDFlag(flags, v)
	addVercelBaseURLFlag(flags, v)
	addVendorTimeoutFlag(flags, v)
}
