package fairplay

import (
   "bytes"
   "encoding/base64"
   "encoding/json"
   "io"
   "net/http"
   "time"

   "github.com/pkg/errors"
   "github.com/tidwall/gjson"
)

// defaultTimeout bounds one license exchange end to end.
const defaultTimeout = 30 * time.Second

type spcEnvelope struct {
   Spc string `json:"spc"`
}

// Exchange posts the key request blob to the license server and blocks until
// the response arrives or the timeout elapses, whichever first. The HTTP
// call runs on its own goroutine and joins through a single-assignment cell,
// so a response arriving after the deadline has no effect.
func Exchange(endpoint string, requestBlob []byte, headers Headers, timeout time.Duration) ([]byte, error) {
   if timeout <= 0 {
      timeout = defaultTimeout
   }
   pending := newCompletion()
   go func() {
      data, err := post(endpoint, requestBlob, headers)
      pending.complete(data, err)
   }()
   return pending.wait(timeout)
}

func post(endpoint string, requestBlob []byte, headers Headers) ([]byte, error) {
   envelope := spcEnvelope{Spc: base64.StdEncoding.EncodeToString(requestBlob)}
   body, err := json.Marshal(envelope)
   if err != nil {
      return nil, errors.Wrap(ErrTransport, err.Error())
   }
   req, err := http.NewRequest("POST", endpoint, bytes.NewReader(body))
   if err != nil {
      return nil, errors.Wrap(ErrTransport, err.Error())
   }
   req.Header.Set("Content-Type", "application/json")
   for name, value := range headers {
      req.Header.Add(name, value)
   }
   resp, err := http.DefaultClient.Do(req)
   if err != nil {
      return nil, errors.Wrap(ErrTransport, err.Error())
   }
   defer resp.Body.Close()
   data, err := io.ReadAll(resp.Body)
   if err != nil {
      return nil, errors.Wrap(ErrTransport, err.Error())
   }
   return decodeLicense(data)
}

// decodeLicense interprets the server response: a JSON envelope with a
// base64 "ckc" field, a JSON error report, or the raw key response bytes.
// Some servers return the blob unwrapped, so a non-empty body that matches
// neither envelope passes through verbatim.
func decodeLicense(data []byte) ([]byte, error) {
   if gjson.ValidBytes(data) {
      if field := gjson.GetBytes(data, "ckc"); field.Exists() {
         decoded, err := base64.StdEncoding.DecodeString(field.String())
         if err != nil {
            return nil, errors.Wrap(ErrLicenseServer, "invalid ckc encoding")
         }
         if len(decoded) == 0 {
            return nil, ErrEmptyResponse
         }
         return decoded, nil
      }
      if field := gjson.GetBytes(data, "error"); field.Exists() {
         return nil, errors.Wrap(ErrLicenseServer, field.String())
      }
   }
   if len(data) == 0 {
      return nil, ErrEmptyResponse
   }
   return data, nil
}
