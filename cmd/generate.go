package cmd

import (
	"os"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/render"
	"github.com/foomo/sitegen/pkg/vendorapi"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func NewGenerateCommand() *cobra.Command {
	v := newViper()
	var (
		inputs content.GeneratorInputs
		html   bool
	)

	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "Generate a single site and print it to stdout",
		Example: `  sitegen generate --industry Plumbing --company "Acme Plumbing" --location Austin --phone "(512) 555-0100"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := zap.L()
			gen, err := newGenerator(l, v, newVendorHTTPClient(v))
			if err != nil {
				return err
			} else if gen == nil {
				return vendorapi.NotConfigured("GEMINI_API_KEY")
			}
			inputs = inputs.Normalize()
			data, err := gen.Generate(cmd.Context(), inputs, func(message string) {
				l.Info(message)
			})
			if err != nil {
				return err
			}
			if html {
				return render.Render(os.Stdout, data, render.Options{PrimaryColor: inputs.BrandColor})
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&inputs.Industry, "industry", "", "Industry of the business")
	flags.StringVar(&inputs.CompanyName, "company", "", "Company name")
	flags.StringVar(&inputs.Location, "location", "", "Service area")
	flags.StringVar(&inputs.Phone, "phone", "", "Phone number used in every call to action")
	flags.StringVar(&inputs.BrandColor, "brand-color", content.DefaultBrandColor, "Brand color as hex")
	flags.StringVar(&inputs.Services, "services", "", "Optional list of offered services")
	flags.StringVar(&inputs.Tagline, "tagline", "", "Optional tagline")
	flags.StringVar(&inputs.YearsInBusiness, "years-in-business", "", "Optional years in business")
	flags.BoolVar(&html, "html", false, "Print the rendered page instead of the document")
	addVendorFlags(flags, v)

	return cmd
}
