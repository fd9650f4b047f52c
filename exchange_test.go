package fairplay

import (
   "bytes"
   "encoding/base64"
   "encoding/json"
   "errors"
   "io"
   "net/http"
   "net/http/httptest"
   "strings"
   "testing"
   "time"
)

func TestExchangeRoundTrip(t *testing.T) {
   requestBlob := []byte{0x00, 0x01, 0x02, 0xfe, 0xff}
   responseBlob := []byte("content key context")
   server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      if ct := r.Header.Get("Content-Type"); ct != "application/json" {
         t.Errorf("missing json content type, got %q", ct)
      }
      if auth := r.Header.Get("Authorization"); auth != "Bearer token1" {
         t.Errorf("custom header dropped, got %q", auth)
      }
      body, _ := io.ReadAll(r.Body)
      var envelope struct {
         Spc string `json:"spc"`
      }
      if err := json.Unmarshal(body, &envelope); err != nil {
         t.Errorf("request body is not the spc envelope: %v", err)
      }
      decoded, err := base64.StdEncoding.DecodeString(envelope.Spc)
      if err != nil {
         t.Errorf("spc field is not base64: %v", err)
      }
      if !bytes.Equal(decoded, requestBlob) {
         t.Errorf("spc round trip mismatch: %x", decoded)
      }
      w.Write([]byte(`{"ckc": "` + base64.StdEncoding.EncodeToString(responseBlob) + `"}`))
   }))
   defer server.Close()
   headers := Headers{"Authorization": "Bearer token1"}
   data, err := Exchange(server.URL, requestBlob, headers, 0)
   if err != nil {
      t.Fatal(err)
   }
   if !bytes.Equal(data, responseBlob) {
      t.Errorf("expected decoded ckc bytes, got %q", data)
   }
}

func TestExchangeRawFallback(t *testing.T) {
   // Valid JSON with neither ckc nor error passes through verbatim, as do
   // servers that return the blob unwrapped.
   for _, body := range []string{`{"status":"ok"}`, "raw key response"} {
      server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
         w.Write([]byte(body))
      }))
      data, err := Exchange(server.URL, []byte("spc"), nil, 0)
      server.Close()
      if err != nil {
         t.Fatal(err)
      }
      if string(data) != body {
         t.Errorf("expected raw body %q, got %q", body, data)
      }
   }
}

func TestExchangeServerError(t *testing.T) {
   server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      w.Write([]byte(`{"error": "denied"}`))
   }))
   defer server.Close()
   _, err := Exchange(server.URL, []byte("spc"), nil, 0)
   if !errors.Is(err, ErrLicenseServer) {
      t.Fatalf("expected ErrLicenseServer, got %v", err)
   }
   if !strings.Contains(err.Error(), "denied") {
      t.Errorf("server message lost: %v", err)
   }
}

func TestExchangeEmptyResponse(t *testing.T) {
   server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      w.WriteHeader(http.StatusOK)
   }))
   defer server.Close()
   _, err := Exchange(server.URL, []byte("spc"), nil, 0)
   if !errors.Is(err, ErrEmptyResponse) {
      t.Fatalf("expected ErrEmptyResponse, got %v", err)
   }
}

func TestExchangeTimeout(t *testing.T) {
   release := make(chan struct{})
   server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
      select {
      case <-release:
      case <-time.After(5 * time.Second):
      }
   }))
   defer server.Close()
   defer close(release)
   start := time.Now()
   _, err := Exchange(server.URL, []byte("spc"), nil, 100*time.Millisecond)
   if !errors.Is(err, ErrTransport) {
      t.Fatalf("expected ErrTransport on timeout, got %v", err)
   }
   if elapsed := time.Since(start); elapsed > time.Second {
      t.Errorf("timeout not honored, took %v", elapsed)
   }
}

func TestCompletionFirstWriterWins(t *testing.T) {
   cell := newCompletion()
   cell.complete([]byte("first"), nil)
   cell.complete([]byte("late"), errors.New("late error"))
   data, err := cell.wait(time.Second)
   if err != nil {
      t.Fatal(err)
   }
   if string(data) != "first" {
      t.Errorf("late writer overwrote completion: %q", data)
   }
}

func TestCompletionTimeoutSealsCell(t *testing.T) {
   cell := newCompletion()
   _, err := cell.wait(10 * time.Millisecond)
   if !errors.Is(err, ErrTransport) {
      t.Fatalf("expected ErrTransport, got %v", err)
   }
   // A callback firing after the deadline must have no effect.
   cell.complete([]byte("late"), nil)
   data, err := cell.wait(10 * time.Millisecond)
   if err == nil || data != nil {
      t.Errorf("late callback mutated a completed request: %q %v", data, err)
   }
}
