package cmd

import (
	"os"

	"github.com/foomo/sitegen/content"
	"github.com/foomo/sitegen/pkg/render"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewRenderCommand() *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "render <site.json>",
		Short: "Render a stored site instance or a generated document as html",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := readSite(args[0])
			if err != nil {
				return err
			}
			return render.RenderSite(os.Stdout, site, edit)
		},
	}

	cmd.Flags().BoolVar(&edit, "edit", false, "Render in edit mode")

	return cmd
}

// readSite reads a site instance, falling back to a bare document
func readSite(path string) (*content.SiteInstance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	site := &content.SiteInstance{}
	if err := json.Unmarshal(data, site); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	if site.Data != nil {
		return site, nil
	}
	doc := &content.GeneratedSiteData{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return &content.SiteInstance{ID: "local", Data: doc}, nil
}
