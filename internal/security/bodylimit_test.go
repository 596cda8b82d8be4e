package security

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBodyLimit(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		_, _ = w.Write(data)
	})

	cases := []struct {
		name          string
		max           int64
		body          string
		contentLength int64
		wantStatus    int
	}{
		{name: "within limit", max: 32, body: `{"containerSize":"20ft"}`, wantStatus: http.StatusOK},
		{name: "exactly at limit", max: 5, body: "12345", wantStatus: http.StatusOK},
		{name: "streamed oversize", max: 5, body: "123456", contentLength: -1, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "declared oversize", max: 5, body: "123", contentLength: 100, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "disabled", max: 0, body: strings.Repeat("x", 1024), wantStatus: http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/calculate-total", strings.NewReader(tc.body))
			if tc.contentLength != 0 {
				req.ContentLength = tc.contentLength
			}
			rr := httptest.NewRecorder()
			BodyLimit{Max: tc.max}.Middleware(echo).ServeHTTP(rr, req)
			require.Equal(t, tc.wantStatus, rr.Code)

			if tc.wantStatus == http.StatusOK {
				require.Equal(t, tc.body, rr.Body.String())
				return
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
			require.Equal(t, "PAYLOAD_TOO_LARGE", payload.Error.Code)
		})
	}
}
