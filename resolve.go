package fairplay

import (
   "net/url"
   "strings"
)

const defaultLicenseHost = "video.bunnycdn.com"

// EndpointResolver decides the license server URL for one exchange. The
// decision depends only on the immutable Config, never on prior calls.
type EndpointResolver interface {
   Resolve(c *Config) (string, error)
}

// TemplateResolver is the direct-or-template strategy: a directly configured
// endpoint wins, otherwise the FairPlayLicense endpoint is built from the
// library and video identifiers, otherwise the static default applies.
type TemplateResolver struct{}

func (TemplateResolver) Resolve(c *Config) (string, error) {
   if c.LicenseUrl != "" {
      return c.LicenseUrl, nil
   }
   libraryId := c.LibraryId
   if libraryId == "" {
      libraryId = libraryIdFromPath(c.CertificateUrl)
   }
   if c.VideoId != "" && libraryId != "" {
      host := c.LicenseHost
      if host == "" {
         host = defaultLicenseHost
      }
      return "https://" + host + "/FairPlayLicense/" + libraryId + "/" + c.VideoId, nil
   }
   if c.DefaultLicenseUrl != "" {
      return c.DefaultLicenseUrl, nil
   }
   return "", ErrUnresolvableEndpoint
}

// DefaultResolver is the direct-or-default strategy used by deployments
// without per-asset identifiers.
type DefaultResolver struct{}

func (DefaultResolver) Resolve(c *Config) (string, error) {
   if c.LicenseUrl != "" {
      return c.LicenseUrl, nil
   }
   if c.DefaultLicenseUrl != "" {
      return c.DefaultLicenseUrl, nil
   }
   return "", ErrUnresolvableEndpoint
}

// libraryIdFromPath extracts the path segment following a FairPlay marker
// segment from the certificate URL. An absent marker or an unparsable URL
// yields "", so resolution falls through to the next precedence rule.
func libraryIdFromPath(certificateUrl string) string {
   parsed, err := url.Parse(certificateUrl)
   if err != nil {
      return ""
   }
   segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
   for i, segment := range segments {
      switch segment {
      case "FairPlay", "FairPlayLicense":
         if i+1 < len(segments) && segments[i+1] != "" {
            return segments[i+1]
         }
      }
   }
   return ""
}
