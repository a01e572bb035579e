// chartpreview builds a chart document and writes it to a file or serves it
// over HTTP, so chart specs can be checked in a desktop browser without an
// embedding application.
//
// Usage:
//
//	chartpreview -spec chart.json -scripts echarts.js -out preview.html
//	chartpreview -spec chart.json -scripts echarts.js -addr :8080
//
// Defaults come from chartview.yaml in the working directory when present;
// flags override it.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/go-drift/chartview/pkg/document"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chartpreview: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "chartview.yaml", "config file path")
		specFile   = flag.String("spec", "", "chart spec file (serialized option object)")
		scripts    = flag.String("scripts", "", "comma-separated charting library script URLs")
		mountID    = flag.String("mount", "", "mount element identifier")
		width      = flag.Float64("width", 0, "chart width in pixels")
		height     = flag.Float64("height", 0, "chart height in pixels")
		outFile    = flag.String("out", "", "write the document to this file")
		addr       = flag.String("addr", "", "serve the document on this address instead of writing it")
	)
	flag.Parse()

	cfg, err := LoadOptional(*configPath)
	if err != nil {
		return err
	}

	if *specFile == "" {
		*specFile = cfg.Chart.SpecFile
	}
	if *specFile == "" {
		return fmt.Errorf("no spec file given (use -spec or the config file)")
	}
	spec, err := os.ReadFile(*specFile)
	if err != nil {
		return fmt.Errorf("failed to read spec: %w", err)
	}

	opts := document.Options{
		Spec:    strings.TrimSpace(string(spec)),
		Scripts: cfg.Chart.Scripts,
		MountID: cfg.Chart.MountID,
		Width:   cfg.Chart.Width,
		Height:  cfg.Chart.Height,
	}
	if *scripts != "" {
		opts.Scripts = strings.Split(*scripts, ",")
	}
	if *mountID != "" {
		opts.MountID = *mountID
	}
	if *width != 0 {
		opts.Width = *width
	}
	if *height != 0 {
		opts.Height = *height
	}
	if opts.Width == 0 {
		opts.Width = 600
	}
	if opts.Height == 0 {
		opts.Height = 400
	}

	doc := document.Build(opts)
	if err := validateDocument(doc, opts); err != nil {
		return err
	}

	if *addr == "" {
		*addr = cfg.Output.Addr
	}
	if *addr != "" {
		return serve(*addr, doc)
	}

	if *outFile == "" {
		*outFile = cfg.Output.File
	}
	if *outFile == "" {
		_, err := os.Stdout.WriteString(doc)
		return err
	}
	return os.WriteFile(*outFile, []byte(doc), 0o644)
}

// validateDocument parses the built document and checks that it contains
// exactly one mount element with the expected identifier. Building never
// validates, so this is the preview tool's chance to catch a malformed spec
// string that breaks the document structure.
func validateDocument(doc string, opts document.Options) error {
	mountID := opts.MountID
	if mountID == "" {
		mountID = document.DefaultMountID
	}

	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return fmt.Errorf("document does not parse: %w", err)
	}

	mounts := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			for _, a := range n.Attr {
				if a.Key == "id" && a.Val == mountID {
					mounts++
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if mounts != 1 {
		return fmt.Errorf("document has %d mount elements with id %q, want 1 (check the spec for stray markup)", mounts, mountID)
	}
	return nil
}

func serve(addr, doc string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, doc)
	})

	fmt.Fprintf(os.Stderr, "chartpreview: serving on %s\n", addr)
	return http.ListenAndServe(addr, mux)
}
