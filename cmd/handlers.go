package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/convolve2d/internal/codec"
	"github.com/rm-hull/convolve2d/internal/convolve"
	"github.com/rm-hull/convolve2d/internal/kernel"
	"github.com/rm-hull/convolve2d/internal/pipeline"
	"github.com/rm-hull/convolve2d/internal/pipeline/stage"
)

type KernelResponse struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Side        int     `json:"side"`
	Center      int     `json:"center"`
	Divisor     int64   `json:"divisor"`
	Matrix      [][]int `json:"matrix"`
}

// NewRouter returns a gin engine running middleware ahead of the convolution
// endpoints. maxUpload caps the request body size in bytes.
func NewRouter(maxUpload int64, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware...)
	RegisterRoutes(r, maxUpload)
	return r
}

// RegisterRoutes adds the /v1 endpoints. Middleware must already be attached
// to r, since gin fixes a route's handler chain when it is registered.
func RegisterRoutes(r *gin.Engine, maxUpload int64) {
	v1 := r.Group("/v1")
	v1.GET("/kernels", listKernels)
	v1.POST("/convolve", convolveHandler(maxUpload))
}

func listKernels(c *gin.Context) {
	side, err := queryInt(c, "side", 3)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_, centerSet := c.GetQuery("center")
	center, err := queryInt(c, "center", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp := make([]KernelResponse, 0, len(kernel.Names()))
	for _, entry := range kernel.Catalog() {
		k, err := KernelSpec{Name: entry.Name, Side: side, Center: center, CenterSet: centerSet}.Resolve()
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		resp = append(resp, KernelResponse{
			Name:        entry.Name,
			Description: entry.Description,
			Side:        k.Side(),
			Center:      k.Center(),
			Divisor:     k.Sum(),
			Matrix:      k.Matrix(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func convolveHandler(maxUpload int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		spec, engine, err := parseConvolveQuery(c)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		k, err := spec.Resolve()
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		opts, err := engine.Options()
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
		body, err := requestImage(c)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		defer func() {
			_ = body.Close()
		}()

		img, err := pipeline.NewFromReader(body)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		if name := c.Query("format"); name != "" {
			format, err := codec.ParseFormat(name)
			if err != nil {
				c.JSON(statusFor(err), gin.H{"error": err.Error()})
				return
			}
			img.Format = format
		}

		if err := img.Pipeline(&stage.ConvolveStage{Kernel: k, Options: opts}); err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}

		var buf bytes.Buffer
		if err := img.Write(&buf); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, codec.ContentType(img.Format), buf.Bytes())
	}
}

func parseConvolveQuery(c *gin.Context) (KernelSpec, EngineSpec, error) {
	var spec KernelSpec
	var engine EngineSpec
	var err error

	spec.Name = c.Query("kernel")
	spec.Matrix = c.Query("matrix")
	if spec.Side, err = queryInt(c, "side", 3); err != nil {
		return spec, engine, err
	}
	_, spec.CenterSet = c.GetQuery("center")
	if spec.Center, err = queryInt(c, "center", 0); err != nil {
		return spec, engine, err
	}

	engine.Boundary = c.Query("boundary")
	if engine.PreserveAlpha, err = queryBool(c, "preserveAlpha"); err != nil {
		return spec, engine, err
	}
	if engine.UnitDivisor, err = queryBool(c, "unitDivisor"); err != nil {
		return spec, engine, err
	}
	return spec, engine, nil
}

// requestImage returns the uploaded file from a multipart "image" field, or
// the raw request body otherwise.
func requestImage(c *gin.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("image")
		if err != nil {
			return nil, err
		}
		return header.Open()
	}
	return c.Request.Body, nil
}

var errBadQuery = errors.New("bad query parameter")

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %v", errBadQuery, key, err)
	}
	return n, nil
}

func queryBool(c *gin.Context, key string) (bool, error) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w %s: %v", errBadQuery, key, err)
	}
	return b, nil
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, convolve.ErrDegenerateKernel):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}
