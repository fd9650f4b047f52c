package fairplay

import (
   "encoding/base64"
   "io"
   "log"
   "net/http"
   "sync"

   "github.com/pkg/errors"
   "github.com/tidwall/gjson"
)

// CertificateProvider fetches the application certificate, tolerating both
// wire formats: a JSON envelope with a base64 "certificate" field, or the
// raw certificate bytes themselves. With Cache set the first successful
// result is reused for the provider's lifetime.
type CertificateProvider struct {
   Url   string
   Cache bool

   mu   sync.Mutex
   data []byte
}

func (p *CertificateProvider) Fetch() ([]byte, error) {
   p.mu.Lock()
   defer p.mu.Unlock()
   if p.Cache && p.data != nil {
      return p.data, nil
   }
   body, err := fetchUrl(p.Url)
   if err != nil {
      return nil, errors.Wrap(ErrCertificateFetch, err.Error())
   }
   certificate, err := decodeCertificate(body)
   if err != nil {
      return nil, err
   }
   log.Printf("certificate %d bytes", len(certificate))
   if p.Cache {
      p.data = certificate
   }
   return certificate, nil
}

// decodeCertificate unwraps the JSON envelope when present. A body that is
// demonstrably JSON with an invalid base64 payload must not fall back to
// raw bytes.
func decodeCertificate(body []byte) ([]byte, error) {
   if gjson.ValidBytes(body) {
      field := gjson.GetBytes(body, "certificate")
      if field.Exists() {
         certificate, err := base64.StdEncoding.DecodeString(field.String())
         if err != nil {
            return nil, errors.Wrap(ErrCertificateDecode, err.Error())
         }
         return certificate, nil
      }
   }
   return body, nil
}

func fetchUrl(raw string) ([]byte, error) {
   resp, err := http.Get(raw)
   if err != nil {
      return nil, err
   }
   defer resp.Body.Close()
   if resp.StatusCode != http.StatusOK {
      return nil, errors.New(resp.Status)
   }
   return io.ReadAll(resp.Body)
}
