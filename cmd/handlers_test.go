package cmd

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func flatImage(w, h int, level uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: level, G: level, B: level, A: 0xFF})
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListKernels(t *testing.T) {
	r := NewRouter(1 << 20)

	t.Run("defaults", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/kernels", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp []KernelResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 4)
		for _, k := range resp {
			assert.Equal(t, 3, k.Side, k.Name)
			assert.Len(t, k.Matrix, 3, k.Name)

			var sum int64
			for _, row := range k.Matrix {
				for _, v := range row {
					sum += int64(v)
				}
			}
			assert.Equal(t, sum, k.Divisor, k.Name)
		}
	})

	t.Run("custom side and center", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/kernels?side=5&center=7", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp []KernelResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		for _, k := range resp {
			assert.Equal(t, 5, k.Side, k.Name)
			if k.Name == "gaussian" {
				assert.Equal(t, 7, k.Center)
			}
		}
	})

	t.Run("even side", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/kernels?side=4", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "must not be even number")
	})

	t.Run("oversized side", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/kernels?side=3037000501", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not a number", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/v1/kernels?side=three", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "bad query parameter side")
	})
}

func TestConvolveHandler(t *testing.T) {
	body := pngBytes(t, flatImage(6, 4, 100))

	t.Run("raw body", func(t *testing.T) {
		r := NewRouter(1 << 20)
		req := httptest.NewRequest(http.MethodPost, "/v1/convolve?kernel=gaussian", bytes.NewReader(body))
		req.Header.Set("Content-Type", "image/png")

		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

		out, err := png.Decode(w.Body)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 6, 4), out.Bounds())

		c := color.NRGBAModel.Convert(out.At(2, 2)).(color.NRGBA)
		assert.Equal(t, uint8(100), c.R)
		assert.Equal(t, uint8(100), c.G)
		assert.Equal(t, uint8(100), c.B)
	})

	t.Run("multipart upload", func(t *testing.T) {
		var form bytes.Buffer
		mw := multipart.NewWriter(&form)
		part, err := mw.CreateFormFile("image", "flat.png")
		require.NoError(t, err)
		_, err = part.Write(body)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		r := NewRouter(1 << 20)
		req := httptest.NewRequest(http.MethodPost, "/v1/convolve?kernel=sharpen&preserveAlpha=true", &form)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		out, err := png.Decode(w.Body)
		require.NoError(t, err)
		c := color.NRGBAModel.Convert(out.At(0, 0)).(color.NRGBA)
		assert.Equal(t, uint8(100), c.R)
		assert.Equal(t, uint8(0xFF), c.A)
	})

	t.Run("output format", func(t *testing.T) {
		r := NewRouter(1 << 20)
		req := httptest.NewRequest(http.MethodPost, "/v1/convolve?format=jpg", bytes.NewReader(body))

		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	})

	t.Run("literal matrix", func(t *testing.T) {
		r := NewRouter(1 << 20)
		req := httptest.NewRequest(http.MethodPost, "/v1/convolve?matrix="+url.QueryEscape("0,0,0;0,1,0;0,0,0"), bytes.NewReader(body))

		w := serve(r, req)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	degenerate := url.QueryEscape("1,-1,0;0,0,0;0,0,0")
	tests := []struct {
		name   string
		query  string
		max    int64
		body   []byte
		status int
	}{
		{name: "even side", query: "kernel=gaussian&side=4", max: 1 << 20, body: body, status: http.StatusBadRequest},
		{name: "oversized side", query: "kernel=sharpen&side=100001", max: 1 << 20, body: body, status: http.StatusBadRequest},
		{name: "unknown kernel", query: "kernel=emboss", max: 1 << 20, body: body, status: http.StatusBadRequest},
		{name: "unknown boundary", query: "boundary=wrap", max: 1 << 20, body: body, status: http.StatusBadRequest},
		{name: "bad flag", query: "unitDivisor=maybe", max: 1 << 20, body: body, status: http.StatusBadRequest},
		{name: "unsupported format", query: "format=webp", max: 1 << 20, body: body, status: http.StatusBadRequest},
		{name: "not an image", query: "", max: 1 << 20, body: []byte("hello"), status: http.StatusBadRequest},
		{name: "degenerate matrix", query: "matrix=" + degenerate, max: 1 << 20, body: body, status: http.StatusUnprocessableEntity},
		{name: "degenerate with unit divisor", query: "matrix=" + degenerate + "&unitDivisor=true", max: 1 << 20, body: body, status: http.StatusOK},
		{name: "too large", query: "", max: 16, body: body, status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(tt.max)
			req := httptest.NewRequest(http.MethodPost, "/v1/convolve?"+tt.query, bytes.NewReader(tt.body))

			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}
