package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rm-hull/convolve2d/cmd"
	"github.com/rm-hull/convolve2d/internal"
	"github.com/rm-hull/convolve2d/internal/kernel"
	"github.com/spf13/cobra"
)

func envInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, value, err)
		return fallback
	}
	return n
}

func addEngineFlags(c *cobra.Command, spec *cmd.EngineSpec) {
	c.Flags().StringVar(&spec.Boundary, "boundary", "center", "Out-of-bounds policy: center, extend, reflect or zero")
	c.Flags().BoolVar(&spec.PreserveAlpha, "preserve-alpha", false, "Keep the source alpha instead of writing alpha 0")
	c.Flags().BoolVar(&spec.UnitDivisor, "unit-divisor", false, "Divide by 1 when the kernel weights sum to 0")
}

func main() {
	var port int
	var maxUploadMB int
	var debug bool
	var frameDelay float64
	var convolveReq cmd.ConvolveRequest
	var harnessReq cmd.HarnessRequest

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	rootCmd := &cobra.Command{
		Use:   "convolve2d",
		Long:  `Grayscale integer convolution of images with square odd-sized kernels`,
		Short: "Grayscale image convolution",
	}

	convolveCmd := &cobra.Command{
		Use:   "convolve <input> <output> [--kernel <name> | --matrix <rows>] [--side <n>] [--center <n>]",
		Short: "Convolve a single image",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			convolveReq.Input = args[0]
			convolveReq.Output = args[1]
			convolveReq.Kernel.CenterSet = c.Flags().Changed("center")
			return cmd.Convolve(convolveReq)
		},
	}
	convolveCmd.Flags().StringVar(&convolveReq.Kernel.Name, "kernel", kernel.Gaussian, fmt.Sprintf("Catalog kernel, one of %v", kernel.Names()))
	convolveCmd.Flags().StringVar(&convolveReq.Kernel.Matrix, "matrix", "", "Literal kernel, rows separated by ';' and weights by ','")
	convolveCmd.Flags().IntVar(&convolveReq.Kernel.Side, "side", 3, "Kernel side length (odd, 3 or greater)")
	convolveCmd.Flags().IntVar(&convolveReq.Kernel.Center, "center", 0, "Center weight (defaults to the catalog kernel's own)")
	convolveCmd.Flags().Float64Var(&convolveReq.PreBlur, "pre-blur", 0, "Gaussian blur sigma applied before convolving")
	convolveCmd.Flags().IntVar(&convolveReq.Width, "width", 0, "Resize to this width first (0 keeps aspect ratio)")
	convolveCmd.Flags().IntVar(&convolveReq.Height, "height", 0, "Resize to this height first (0 keeps aspect ratio)")
	addEngineFlags(convolveCmd, &convolveReq.Engine)

	harnessCmd := &cobra.Command{
		Use:   "harness <input>... [--out-dir <path>] [--workers <n>]",
		Short: "Run the five reference kernels over each input image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			harnessReq.Inputs = args
			return cmd.Harness(harnessReq)
		},
	}
	harnessCmd.Flags().StringVar(&harnessReq.OutDir, "out-dir", ".", "Folder to write output<n> images to")
	harnessCmd.Flags().IntVar(&harnessReq.Workers, "workers", envInt("CONVOLVE2D_WORKERS", 4), "Number of concurrent workers")
	harnessCmd.Flags().StringVar(&harnessReq.Format, "format", "", "Output format (defaults to each input's extension)")
	harnessCmd.Flags().BoolVar(&harnessReq.Overwrite, "overwrite", false, "Replace existing output files")
	harnessCmd.Flags().IntVar(&harnessReq.Limit, "limit", 0, "Process at most this many inputs (0 for all)")
	addEngineFlags(harnessCmd, &harnessReq.Engine)

	animateCmd := &cobra.Command{
		Use:   "animate <input> <output.png> [--delay <seconds>]",
		Short: "Write an APNG cycling through every catalog kernel",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return cmd.Animate(args[0], args[1], frameDelay)
		},
	}
	animateCmd.Flags().Float64Var(&frameDelay, "delay", 1.0, "Seconds to show each frame")

	serveCmd := &cobra.Command{
		Use:   "serve [--port <port>] [--max-upload-mb <n>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cmd.ApiServer(port, maxUploadMB, debug)
		},
	}
	serveCmd.Flags().IntVar(&port, "port", envInt("CONVOLVE2D_PORT", 8080), "Port to run HTTP server on")
	serveCmd.Flags().IntVar(&maxUploadMB, "max-upload-mb", envInt("CONVOLVE2D_MAX_UPLOAD_MB", 32), "Largest accepted upload in megabytes")
	serveCmd.Flags().BoolVar(&debug, "debug", false, "Enable debugging (pprof) - WARNING: do not enable in production")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(internal.Version())
		},
	}

	rootCmd.AddCommand(convolveCmd, harnessCmd, animateCmd, serveCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
