package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/card-statement-converter/internal/extractor"
	"github.com/insightdelivered/card-statement-converter/internal/logger"
	"github.com/insightdelivered/card-statement-converter/internal/models"
	"github.com/insightdelivered/card-statement-converter/internal/parser"
	"github.com/insightdelivered/card-statement-converter/internal/processor"
	"github.com/insightdelivered/card-statement-converter/internal/writer"
)

const version = "1.0.0"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success      bool                         `json:"success"`
	Error        string                       `json:"error,omitempty"`
	Source       string                       `json:"source,omitempty"`
	Cycle        *models.BillingCycle         `json:"cycle,omitempty"`
	Totals       *models.SummaryTotals        `json:"totals,omitempty"`
	Transactions []models.Transaction         `json:"transactions"`
	CSV          string                       `json:"csv,omitempty"`
	Report       *models.ReconciliationReport `json:"report,omitempty"`
	Verified     bool                         `json:"verified"`
	Count        int                          `json:"count"`
	Version      string                       `json:"version,omitempty"`
}

// New builds the Fiber app for the hosted deployment of the converter.
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "card-statement-converter",
		BodyLimit: 32 << 20,
	})
	app.Get("/api/health", HandleHealth)
	app.Post("/api/convert", HandleConvert)
	return app
}

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// HandleConvert converts one uploaded statement (.pdf, or .txt with
// pre-extracted text) and returns the resolved transactions, the
// reconciliation report, and the CSV rendering. An optional "rules"
// form field carries an inline YAML noise-rule override. Extraction
// failures map to 422 with the failure kind in the body.
func HandleConvert(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".pdf" && ext != ".txt" {
		return writeError(c, fiber.StatusBadRequest, "only .pdf and .txt files are supported")
	}

	rules := parser.DefaultRules()
	if inline := c.FormValue("rules"); inline != "" {
		rules, err = parser.ParseRules([]byte(inline))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("bad rules field: %v", err))
		}
	}

	tmp, err := os.CreateTemp("", "statement-*"+ext)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())
	tmp.Close()

	if err := c.SaveFile(fileHeader, tmp.Name()); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "failed to save uploaded file")
	}

	// the upload's own name is the document identifier; the temp path
	// is an implementation detail
	proc := &processor.Processor{
		Extract: func(string) ([]string, error) { return extractor.ExtractPages(tmp.Name()) },
		Rules:   rules,
		Log:     logger.New(zerolog.WarnLevel),
	}
	stmt, err := proc.Process(fileHeader.Filename)
	if err != nil {
		// every per-document failure kind is the client's document,
		// not an internal fault
		return writeError(c, fiber.StatusUnprocessableEntity, errorKind(err))
	}

	var csvBuf bytes.Buffer
	w := &writer.CSVWriter{}
	if err := w.Write(&csvBuf, stmt.Transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("csv generation failed: %v", err))
	}

	// nil marshals to JSON null, not []
	txns := stmt.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	return c.JSON(ConvertResponse{
		Success:      true,
		Source:       fileHeader.Filename,
		Cycle:        &stmt.Cycle,
		Totals:       &stmt.Totals,
		Transactions: txns,
		CSV:          csvBuf.String(),
		Report:       &stmt.Report,
		Verified:     stmt.Verified,
		Count:        len(txns),
		Version:      version,
	})
}

// errorKind maps a pass failure to its typed kind for the response
// body.
func errorKind(err error) string {
	for _, kind := range []error{
		models.ErrEmptyDocument,
		models.ErrCycleNotFound,
		models.ErrSummaryNotFound,
		models.ErrNoTransactionSection,
		models.ErrAmbiguousDate,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return err.Error()
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
	})
}
