// Package api exposes the statement converter over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/statementkit/estatement-compiler/internal/extractor"
	"github.com/statementkit/estatement-compiler/internal/models"
	"github.com/statementkit/estatement-compiler/internal/parser"
	"github.com/statementkit/estatement-compiler/internal/writer"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// ConvertResponse is the JSON response from the /api/convert endpoint.
type ConvertResponse struct {
	Success          bool                 `json:"success"`
	Error            string               `json:"error,omitempty"`
	Statement        string               `json:"statement,omitempty"`
	Year             *int                 `json:"year,omitempty"`
	OpeningBalance   *float64             `json:"openingBalance,omitempty"`
	Transactions     []models.Transaction `json:"transactions"`
	CSV              string               `json:"csv,omitempty"`
	TotalWithdrawals float64              `json:"totalWithdrawals"`
	TotalDeposits    float64              `json:"totalDeposits"`
	Count            int                  `json:"count"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Log zerolog.Logger
}

// Register sets up the API routes on the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/convert", h.HandleConvert)
}

// NewApp builds a fiber app with the API routes registered.
func NewApp(log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit: 32 << 20, // statements are small; 32MB is generous
	})
	h := &Handler{Log: log}
	h.Register(app)
	return app
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleConvert accepts a statement PDF (multipart field "file") or
// pre-extracted page text (form field "extractedText", pages separated by
// "---PAGE_BREAK---" lines) and returns the parsed transactions plus the
// rendered CSV.
func (h *Handler) HandleConvert(c *fiber.Ctx) error {
	name := "upload"
	var pages []string

	// Client-side extraction wins when provided: browsers with pdf.js
	// produce better text than some server-side decodes.
	if extracted := c.FormValue("extractedText"); extracted != "" {
		for _, page := range strings.Split(extracted, "\n---PAGE_BREAK---\n") {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
	}

	if len(pages) == 0 {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
		}
		name = fileHeader.Filename
		if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
			return writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
		}

		tmpFile, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
		}
		tmpPath := tmpFile.Name()
		tmpFile.Close()
		defer os.Remove(tmpPath)

		if err := c.SaveFile(fileHeader, tmpPath); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
		}

		pages, err = extractor.ExtractPages(tmpPath)
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}
	}

	p := parser.New(h.Log)
	st, err := p.Parse(name, pages)
	if err != nil {
		if errors.Is(err, parser.ErrMissingSectionMarker) {
			return writeError(c, fiber.StatusUnprocessableEntity,
				"No transaction section found. This does not look like a supported e-statement.")
		}
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
	}

	var csvBuf bytes.Buffer
	if err := writer.WriteStatement(&csvBuf, st); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	var totalWithdrawals, totalDeposits float64
	for i := range st.Transactions {
		t := &st.Transactions[i]
		if t.Withdrawal != nil {
			totalWithdrawals += *t.Withdrawal
		}
		if t.Deposit != nil {
			totalDeposits += *t.Deposit
		}
	}

	// nil marshals to JSON null, not [].
	txns := st.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	return c.JSON(ConvertResponse{
		Success:          true,
		Statement:        st.Name,
		Year:             st.Year,
		OpeningBalance:   st.OpeningBalance,
		Transactions:     txns,
		CSV:              csvBuf.String(),
		TotalWithdrawals: totalWithdrawals,
		TotalDeposits:    totalDeposits,
		Count:            len(txns),
	})
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
