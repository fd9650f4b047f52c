package fairplay

import (
   "log"
   "net/http"
   "net/url"
   "strings"
)

// Transport installs a default transport whose policy decides per request
// whether to log it ('L') and whether to honor the environment proxy ('P').
// Useful for tracing certificate and license traffic from integrators.
//
// github.com/golang/go/issues/25793
func Transport(policy func(*http.Request) string) {
   http.DefaultTransport = &http.Transport{
      Protocols: &http.Protocols{},
      Proxy: func(req *http.Request) (*url.URL, error) {
         flags := policy(req)
         if strings.ContainsRune(flags, 'L') {
            log.Println(req.Method, req.URL)
         }
         if strings.ContainsRune(flags, 'P') {
            return http.ProxyFromEnvironment(req)
         }
         return nil, nil
      },
   }
}
