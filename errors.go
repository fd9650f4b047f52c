package fairplay

import "errors"

var (
   // ErrUnsupportedScheme signals that a request is not a FairPlay key
   // delivery request. It is a decline, not a failure: no side effects have
   // occurred and another delegate may handle the request.
   ErrUnsupportedScheme = errors.New("unsupported key request scheme")

   ErrCertificateFetch     = errors.New("certificate fetch failed")
   ErrCertificateDecode    = errors.New("certificate decode failed")
   ErrUnresolvableEndpoint = errors.New("no license endpoint resolvable")
   ErrKeyRequestGeneration = errors.New("key request generation failed")
   ErrTransport            = errors.New("license transport failed")
   ErrLicenseServer        = errors.New("license server error")
   ErrEmptyResponse        = errors.New("empty license response")
)
