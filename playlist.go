package fairplay

import (
   "bytes"
   "strings"

   "github.com/grafov/m3u8"
   "github.com/pkg/errors"
)

// streamingKeyFormat identifies FairPlay key entries in HLS playlists.
const streamingKeyFormat = "com.apple.streamingkeydelivery"

// FindKeyUri scans an HLS media playlist for the FairPlay key delivery URI,
// so a caller holding only the playlist can build the key request. A
// playlist without a FairPlay key is a not-found condition, not a parse
// failure.
func FindKeyUri(playlist []byte) (string, error) {
   decoded, listType, err := m3u8.DecodeFrom(bytes.NewReader(playlist), true)
   if err != nil {
      return "", errors.Wrap(err, "failed to parse playlist")
   }
   if listType != m3u8.MEDIA {
      return "", errors.New("not a media playlist")
   }
   media := decoded.(*m3u8.MediaPlaylist)
   if uri := keyUri(media.Key); uri != "" {
      return uri, nil
   }
   for _, segment := range media.Segments {
      if segment == nil {
         continue
      }
      if uri := keyUri(segment.Key); uri != "" {
         return uri, nil
      }
   }
   return "", errors.New("no FairPlay key in playlist")
}

func keyUri(key *m3u8.Key) string {
   if key == nil {
      return ""
   }
   if !strings.HasPrefix(key.URI, keyScheme+"://") {
      return ""
   }
   format := strings.Trim(key.Keyformat, `"`)
   if format != "" && format != streamingKeyFormat {
      return ""
   }
   return key.URI
}
