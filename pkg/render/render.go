package render

import (
	"embed"
	"html/template"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/sitegen/content"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	Disclaimer = "Services and availability may vary. Contact us to confirm details."
	// ImageAccept file types offered by the image picker
	ImageAccept = ".jpg,.jpeg,.png,.webp"
)

var (
	dataImageRegex = regexp.MustCompile(`^data:image/(png|jpe?g|gif|webp);base64,[A-Za-z0-9+/=\s]+$`)
	iconRegex      = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	siteTemplate   = template.Must(template.New("site.html").Funcs(template.FuncMap{
		"edit":      editAttr,
		"editImage": editImageAttr,
		"image":     imageURL,
		"tel":       telValue,
		"phone":     content.FormatPhone,
		"icon":      iconName,
		"path":      fieldPath,
	}).ParseFS(templatesFS, "templates/site.html"))
)

type (
	Options struct {
		// EditMode turns every text leaf editable and every image replaceable
		EditMode bool
		// SiteID target of edits, required in edit mode
		SiteID string
		// PrimaryColor brand color, falls back to content.DefaultBrandColor
		PrimaryColor string
		// Year printed in the footer, defaults to the current year
		Year int
	}
	page struct {
		Data       *content.GeneratedSiteData
		Edit       bool
		SiteID     string
		Color      template.CSS
		Year       int
		Disclaimer string
		Accept     string
	}
)

// Render writes the site as a complete HTML page
func Render(w io.Writer, data *content.GeneratedSiteData, opts Options) error {
	if data == nil {
		return errors.New("nil site data")
	}
	if opts.EditMode && opts.SiteID == "" {
		return errors.New("edit mode requires a site id")
	}
	color := opts.PrimaryColor
	if !content.IsHexColor(color) {
		color = content.DefaultBrandColor
	}
	year := opts.Year
	if year == 0 {
		year = time.Now().Year()
	}
	p := page{
		Data:       data,
		Edit:       opts.EditMode,
		SiteID:     opts.SiteID,
		Color:      template.CSS(color), //nolint:gosec
		Year:       year,
		Disclaimer: Disclaimer,
		Accept:     ImageAccept,
	}
	if err := siteTemplate.Execute(w, p); err != nil {
		return errors.Wrap(err, "failed to render site")
	}
	return nil
}

// RenderSite renders a stored site instance
func RenderSite(w io.Writer, site *content.SiteInstance, editMode bool) error {
	if site == nil {
		return errors.New("nil site")
	}
	return Render(w, site.Data, Options{
		EditMode:     editMode,
		SiteID:       site.ID,
		PrimaryColor: site.BrandColor(),
	})
}

// ------------------------------------------------------------------------------------------------
// ~ Template funcs
// ------------------------------------------------------------------------------------------------

func editAttr(enabled bool, path string) template.HTMLAttr {
	if !enabled {
		return ""
	}
	return template.HTMLAttr(`contenteditable="true" spellcheck="true" data-field="` + template.HTMLEscapeString(path) + `"`) //nolint:gosec
}

func editImageAttr(enabled bool, path string) template.HTMLAttr {
	if !enabled {
		return ""
	}
	return template.HTMLAttr(`data-image-field="` + template.HTMLEscapeString(path) + `" role="button" tabindex="0"`) //nolint:gosec
}

// imageURL passes http(s) urls and base64 image data uris, anything else is replaced by the fallback image
func imageURL(src string) template.URL {
	src = strings.TrimSpace(src)
	switch {
	case strings.HasPrefix(src, "https://"), strings.HasPrefix(src, "http://"):
		if !strings.ContainsAny(src, "\"'<> ") {
			return template.URL(src) //nolint:gosec
		}
	case dataImageRegex.MatchString(src):
		return template.URL(src) //nolint:gosec
	}
	return template.URL(content.FallbackImageURL) //nolint:gosec
}

func telValue(phone string) string {
	if digits := content.PhoneDigits(phone); digits != "" {
		return digits
	}
	return phone
}

func iconName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if !iconRegex.MatchString(name) {
		return "check-circle"
	}
	return name
}

func fieldPath(format string, index int, part ...string) string {
	ret := strings.Replace(format, "#", strconv.Itoa(index), 1)
	if len(part) > 0 {
		ret += "." + part[0]
	}
	return ret
}
