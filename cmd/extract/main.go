package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/catalog-extractor/internal/common"
	"github.com/joseph-ayodele/catalog-extractor/internal/export"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm"
	"github.com/joseph-ayodele/catalog-extractor/internal/llm/openai"
	"github.com/joseph-ayodele/catalog-extractor/internal/ocr"
	"github.com/joseph-ayodele/catalog-extractor/internal/pipeline"
)

type app struct {
	cfg    *common.Config
	logger *slog.Logger
	svc    *pipeline.Service
	out    io.Writer
}

func main() {
	_ = godotenv.Load()

	a := &app{out: os.Stdout}
	root := &cobra.Command{
		Use:           "extract",
		Short:         "Run the catalog, invoice and classification pipelines from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.AddCommand(a.inventoryCmd(), a.invoiceCmd(), a.classifyCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) setup() error {
	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	cfg.Log.Format = "text" // stdout carries the JSON result
	a.cfg = cfg
	a.logger = common.NewLogger(cfg.Log, os.Stderr)
	slog.SetDefault(a.logger)

	if err := cfg.Validate(); err != nil {
		return err
	}
	gen := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	}, nil, a.logger)

	var detector ocr.TextDetector
	if cfg.ValidateOCR() == nil {
		detector = ocr.NewClient(ocr.Config{APIKey: cfg.OCR.APIKey, Endpoint: cfg.OCR.Endpoint, Timeout: cfg.OCR.Timeout}, a.logger)
	}

	a.svc, err = pipeline.NewService(llm.NewResilient(gen, llm.DefaultPolicy(), a.logger), detector, nil, a.logger)
	return err
}

func (a *app) inventoryCmd() *cobra.Command {
	var (
		req      pipeline.InventoryRequest
		quantity int
		xlsxPath string
	)
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Generate a product list for a brand or category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if quantity != 0 {
				req.Quantity = pipeline.Quantity(strconv.Itoa(quantity))
			}
			res, err := a.svc.GenerateInventory(cmd.Context(), req)
			if err != nil {
				return err
			}
			for _, rej := range res.Rejected {
				a.logger.Warn("row dropped", "line", rej.Line, "reason", rej.Reason, "text", rej.Text)
			}
			if xlsxPath == "" {
				return a.print(res)
			}
			b, err := export.NewService(a.logger).ProductsXLSX(res.Inventory)
			if err != nil {
				return err
			}
			if err := os.WriteFile(xlsxPath, b, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", xlsxPath, err)
			}
			a.logger.Info("workbook written", "path", xlsxPath, "products", len(res.Inventory))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Brand, "brand", "", "brand to list products for")
	f.StringVar(&req.Category, "category", "", "product category")
	f.StringVar(&req.KnownTypes, "known-types", "", "product types the shop already stocks")
	f.StringVar(&req.Description, "description", "", "shop description")
	f.StringVar(&req.Prompt, "prompt", "", "free-form instructions")
	f.IntVarP(&quantity, "quantity", "n", 0, "number of products (clamped to 6..50, default 10)")
	f.StringVar(&xlsxPath, "xlsx", "", "write an XLSX workbook to this path instead of printing JSON")
	return cmd
}

func (a *app) invoiceCmd() *cobra.Command {
	var textFile, fileURL string
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Extract invoice fields from OCR text or an image URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch {
			case fileURL != "":
				res, err := a.svc.ParseInvoice(cmd.Context(), pipeline.InvoiceRequest{FileURL: fileURL})
				if err != nil {
					return err
				}
				return a.print(res)
			case textFile != "":
				text, err := readText(textFile)
				if err != nil {
					return err
				}
				rec, err := a.svc.ExtractInvoiceText(cmd.Context(), text)
				if err != nil {
					return err
				}
				return a.print(pipeline.InvoiceResult{StructuredInvoice: rec})
			default:
				return fmt.Errorf("one of --text or --url is required")
			}
		},
	}
	cmd.Flags().StringVar(&textFile, "text", "", "file holding OCR text, - for stdin")
	cmd.Flags().StringVar(&fileURL, "url", "", "invoice image URL (needs VISION_API_KEY)")
	return cmd
}

func (a *app) classifyCmd() *cobra.Command {
	var req pipeline.ClassifyRequest
	cmd := &cobra.Command{
		Use:   "classify <product name>",
		Short: "Look up the HSN code and GST slab of a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ProductName = args[0]
			rec, err := a.svc.Classify(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(rec)
		},
	}
	cmd.Flags().StringVar(&req.Brand, "brand", "", "brand")
	cmd.Flags().StringVar(&req.Category, "category", "", "category")
	cmd.Flags().StringVar(&req.Unit, "unit", "", "selling unit")
	return cmd
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readText(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
