package main

import (
   "errors"
   "flag"
   "fmt"
   "log"
   "net/http"
   "os"
   "time"

   "github.com/joho/godotenv"
   fairplay "github.com/solog80/better-player-plus-bunnyDrm"
)

// pendingFile finalizes a key request by writing the CKC to a file.
type pendingFile struct {
   name string
   err  error
}

func (p *pendingFile) RespondWithData(data []byte) {
   log.Println("WriteFile", p.name)
   p.err = os.WriteFile(p.name, data, os.ModePerm)
}

func (p *pendingFile) FinishSuccessfully() {
   if p.err == nil {
      log.Println("license exchange complete")
   }
}

func (p *pendingFile) FinishWithError(err error) {
   p.err = err
}

func environ(name, fallback string) string {
   if value := os.Getenv(name); value != "" {
      return value
   }
   return fallback
}

func assetUri(asset, playlist string) (string, error) {
   if playlist == "" {
      return asset, nil
   }
   data, err := os.ReadFile(playlist)
   if err != nil {
      return "", err
   }
   return fairplay.FindKeyUri(data)
}

func main() {
   log.SetFlags(log.Ltime)
   fairplay.Transport(func(*http.Request) string {
      return "LP"
   })
   // Deployment secrets (API keys passed as headers) may live in a .env
   // next to the binary.
   godotenv.Load()

   headers := fairplay.Headers{}
   asset := flag.String("a", "", "asset URI (skd scheme)")
   playlist := flag.String("m", "", "HLS media playlist file to discover the asset URI from")
   certificate := flag.String("c", environ("BUNNY_CERTIFICATE_URL", ""), "certificate URL")
   license := flag.String("l", environ("BUNNY_LICENSE_URL", ""), "direct license URL")
   fallback := flag.String("d", "", "default license URL")
   videoId := flag.String("v", environ("BUNNY_VIDEO_ID", ""), "video ID")
   libraryId := flag.String("b", environ("BUNNY_LIBRARY_ID", ""), "library ID")
   spcFile := flag.String("s", "", "file holding the SPC blob")
   output := flag.String("o", "ckc.bin", "output file for the CKC blob")
   timeout := flag.Duration("t", 0, "exchange timeout (default 30s)")
   flag.Var(headers, "H", "license request header, Name: Value")
   flag.Parse()

   if *certificate == "" || *spcFile == "" {
      flag.Usage()
      os.Exit(1)
   }
   uri, err := assetUri(*asset, *playlist)
   if err != nil {
      panic(err)
   }
   config := fairplay.Config{
      CertificateUrl:    *certificate,
      LicenseUrl:        *license,
      DefaultLicenseUrl: *fallback,
      VideoId:           *videoId,
      LibraryId:         *libraryId,
      Headers:           headers,
      Timeout:           *timeout,
      // The platform DRM primitive is not available off device. Stand in
      // with a pre-captured SPC blob so deployments can be debugged.
      GenerateRequest: func(certificate, contentId []byte) ([]byte, error) {
         return os.ReadFile(*spcFile)
      },
   }
   request := fairplay.KeyRequest{Uri: uri}
   pending := pendingFile{name: *output}
   start := time.Now()
   orchestrator := fairplay.Orchestrator{Config: &config}
   if !orchestrator.Handle(&request, &pending) {
      panic(errors.New("request not handled: URI scheme is not skd"))
   }
   if pending.err != nil {
      panic(pending.err)
   }
   fmt.Println("done in", time.Since(start).Truncate(time.Millisecond))
}
