package fairplay

import (
   "errors"
   "sort"
   "strings"
   "time"
)

// Config holds the immutable exchange configuration. One Config serves many
// key requests and is never mutated after construction, so no locking is
// required across concurrent requests.
type Config struct {
   // GenerateRequest produces the opaque key request blob (SPC) from the
   // application certificate and the content identifier. On Apple platforms
   // this is the streaming content key request primitive; it is never
   // reimplemented here.
   GenerateRequest func(certificate, contentId []byte) ([]byte, error)

   // CertificateUrl locates the application certificate, raw or wrapped in
   // a JSON envelope.
   CertificateUrl string

   // LicenseUrl, when set, is used verbatim as the license endpoint.
   LicenseUrl string

   // DefaultLicenseUrl is the static fallback endpoint consulted when
   // neither LicenseUrl nor the identifier template can resolve.
   DefaultLicenseUrl string

   // LicenseHost overrides the template host. Empty means video.bunnycdn.com.
   LicenseHost string

   // VideoId and LibraryId feed the FairPlayLicense endpoint template.
   // LibraryId may be left empty and derived from the certificate URL path.
   VideoId   string
   LibraryId string

   // Headers are added to every license request. Entries are never dropped
   // or deduplicated against the content type header.
   Headers Headers

   // Timeout bounds one license exchange. Zero means 30 seconds.
   Timeout time.Duration

   // CacheCertificate reuses the first fetched certificate for the lifetime
   // of the orchestrator. Off by default: each request re-fetches.
   CacheCertificate bool
}

func (c *Config) timeout() time.Duration {
   if c.Timeout > 0 {
      return c.Timeout
   }
   return defaultTimeout
}

// Headers collects custom license request headers. It implements flag.Value
// in "Name: Value" form so a CLI can pass -H repeatedly.
type Headers map[string]string

func (h Headers) Set(input string) error {
   name, value, found := strings.Cut(input, ":")
   if !found {
      return errors.New("invalid header format")
   }
   h[strings.TrimSpace(name)] = strings.TrimSpace(value)
   return nil
}

func (h Headers) String() string {
   names := make([]string, 0, len(h))
   for name := range h {
      names = append(names, name)
   }
   sort.Strings(names)
   var out []string
   for _, name := range names {
      out = append(out, name+": "+h[name])
   }
   return strings.Join(out, ", ")
}
