package decoder

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/signal-map/internal/config"
	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(url string, timeout int) *client {
	cfg := &config.DecoderConfig{
		BaseURL:        url,
		RequestTimeout: timeout,
	}
	return NewDecoderClient(cfg, zap.NewNop()).(*client)
}

func TestClient_Decode(t *testing.T) {
	t.Run("hex payload decodes to records", func(t *testing.T) {
		var gotPath, gotHex string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotHex = r.FormValue("hex_data")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"type":"A","lat":10,"lng":20},{"type":"B","lat":-5,"lng":30}]`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, 5)
		ds, err := c.Decode(context.Background(), domain.DecodeRequest{
			Endpoint: domain.EndpointProcessHex,
			HexData:  "2020abcd",
		})

		require.NoError(t, err)
		assert.Equal(t, "/process_hex", gotPath)
		assert.Equal(t, "2020abcd", gotHex)
		require.Equal(t, 2, ds.Len())
		assert.Equal(t, domain.SignalRecord{Type: "A", Lat: 10, Lng: 20}, ds.At(0))
		assert.Equal(t, domain.SignalRecord{Type: "B", Lat: -5, Lng: 30}, ds.At(1))
	})

	t.Run("file payload is sent as multipart file", func(t *testing.T) {
		var gotPath, gotName string
		var gotContent []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			f, hdr, err := r.FormFile("file")
			if err == nil {
				gotName = hdr.Filename
				gotContent, _ = io.ReadAll(f)
			}
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := newTestClient(server.URL+"/", 5)
		ds, err := c.Decode(context.Background(), domain.DecodeRequest{
			Endpoint: domain.EndpointProcessFile,
			Filename: "capture.bin",
			Content:  []byte{0x20, 0x20, 0x01},
		})

		require.NoError(t, err)
		assert.True(t, ds.IsEmpty())
		assert.Equal(t, "/process_file", gotPath)
		assert.Equal(t, "capture.bin", gotName)
		assert.Equal(t, []byte{0x20, 0x20, 0x01}, gotContent)
	})

	t.Run("error body is surfaced verbatim", func(t *testing.T) {
		for _, status := range []int{http.StatusOK, http.StatusBadRequest} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write([]byte(`{"error":"bad checksum"}`))
			}))

			c := newTestClient(server.URL, 5)
			_, err := c.Decode(context.Background(), domain.DecodeRequest{
				Endpoint: domain.EndpointProcessHex,
				HexData:  "00",
			})
			server.Close()

			require.Error(t, err)
			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.CodeDecodeService, appErr.Code)
			assert.Equal(t, "bad checksum", appErr.Message)
		}
	})

	t.Run("server failure without json is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`<html>Internal Server Error</html>`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, 5)
		_, err := c.Decode(context.Background(), domain.DecodeRequest{
			Endpoint: domain.EndpointProcessHex,
			HexData:  "00",
		})

		assert.True(t, errors.HasCode(err, errors.CodeTransport))
	})

	t.Run("unreachable service is a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c := newTestClient(url, 5)
		_, err := c.Decode(context.Background(), domain.DecodeRequest{
			Endpoint: domain.EndpointProcessFile,
			Content:  []byte{1},
		})

		assert.True(t, errors.HasCode(err, errors.CodeTransport))
	})

	t.Run("invalid coordinates reject the response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"type":"A","lat":95,"lng":20}]`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, 5)
		_, err := c.Decode(context.Background(), domain.DecodeRequest{
			Endpoint: domain.EndpointProcessHex,
			HexData:  "00",
		})

		assert.True(t, errors.HasCode(err, errors.CodeDecodeService))
	})

	t.Run("single fix from process_data", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"latitude":55.75222,"longitude":37.61556}`))
		}))
		defer server.Close()

		c := newTestClient(server.URL, 5)
		ds, err := c.Decode(context.Background(), domain.DecodeRequest{
			Endpoint: domain.EndpointProcessData,
			Content:  make([]byte, 16),
		})

		require.NoError(t, err)
		require.Equal(t, 1, ds.Len())
		assert.Equal(t, domain.SignalRecord{Type: "A", Lat: 55.75222, Lng: 37.61556}, ds.At(0))
	})

	t.Run("stuck request times out", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		c := newTestClient(server.URL, 0)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := c.Decode(ctx, domain.DecodeRequest{
			Endpoint: domain.EndpointProcessHex,
			HexData:  "00",
		})

		assert.True(t, errors.HasCode(err, errors.CodeTransport))
	})
}
