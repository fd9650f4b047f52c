package fairplay

import (
   "log"
   "net/url"
   "sync"

   "github.com/pkg/errors"
)

// keyScheme is the FairPlay streaming key delivery URI scheme.
const keyScheme = "skd"

// KeyRequest describes one incoming content key request.
type KeyRequest struct {
   Uri string
}

func (r *KeyRequest) scheme() string {
   parsed, err := url.Parse(r.Uri)
   if err != nil {
      return ""
   }
   return parsed.Scheme
}

// ContentId derives the content identifier the platform primitive signs
// into the key request: the UTF-8 bytes of the full asset URI.
func (r *KeyRequest) ContentId() []byte {
   return []byte(r.Uri)
}

// PendingRequest is the caller-owned handle awaiting the key response.
// Exactly one finish variant is invoked exactly once per handled request.
type PendingRequest interface {
   RespondWithData(data []byte)
   FinishSuccessfully()
   FinishWithError(err error)
}

// Orchestrator drives each content key request through certificate fetch,
// key request generation and the license exchange. Concurrent requests are
// independent; the only shared state is the Config and the optional
// certificate cache.
type Orchestrator struct {
   Config   *Config
   Resolver EndpointResolver

   once     sync.Once
   provider *CertificateProvider
}

// Process runs the pipeline and returns the key response blob. A request
// whose scheme is not skd is declined with ErrUnsupportedScheme before any
// certificate or network activity.
func (o *Orchestrator) Process(request *KeyRequest) ([]byte, error) {
   if request.scheme() != keyScheme {
      return nil, ErrUnsupportedScheme
   }
   certificate, err := o.certificate()
   if err != nil {
      return nil, err
   }
   if o.Config.GenerateRequest == nil {
      return nil, errors.Wrap(ErrKeyRequestGeneration, "GenerateRequest function is not set")
   }
   spc, err := o.Config.GenerateRequest(certificate, request.ContentId())
   if err != nil {
      return nil, errors.Wrap(ErrKeyRequestGeneration, err.Error())
   }
   resolver := o.Resolver
   if resolver == nil {
      resolver = TemplateResolver{}
   }
   endpoint, err := resolver.Resolve(o.Config)
   if err != nil {
      return nil, err
   }
   ckc, err := Exchange(endpoint, spc, o.Config.Headers, o.Config.timeout())
   if err != nil {
      return nil, err
   }
   log.Printf("license %d bytes", len(ckc))
   return ckc, nil
}

// Handle processes one request and completes pending exactly once. It
// returns false without touching pending when the request is not a FairPlay
// key request, so callers can chain delegates.
func (o *Orchestrator) Handle(request *KeyRequest, pending PendingRequest) bool {
   data, err := o.Process(request)
   if errors.Is(err, ErrUnsupportedScheme) {
      return false
   }
   if err != nil {
      pending.FinishWithError(err)
      return true
   }
   pending.RespondWithData(data)
   pending.FinishSuccessfully()
   return true
}

func (o *Orchestrator) certificate() ([]byte, error) {
   o.once.Do(func() {
      o.provider = &CertificateProvider{
         Url:   o.Config.CertificateUrl,
         Cache: o.Config.CacheCertificate,
      }
   })
   return o.provider.Fetch()
}
