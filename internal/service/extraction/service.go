package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/pkg/clients/anthropic"
)

// Kind names a supported document type.
type Kind string

const (
	KindChallan       Kind = "challan"
	KindSalesReport   Kind = "sales_report"
	KindBankStatement Kind = "bank_statement"
)

var (
	// ErrUnknownKind is returned for document kinds without an extractor.
	ErrUnknownKind = errors.New("unknown document kind")
	// ErrMalformedOutput is returned when the model reply is not the expected JSON.
	ErrMalformedOutput = errors.New("malformed extraction output")
)

const (
	resultTTL     = time.Hour
	resultCleanup = 10 * time.Minute
)

// ParseKind validates a kind coming from the outside world.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindChallan, KindSalesReport, KindBankStatement:
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Request is a document to read plus the context the document itself lacks.
type Request struct {
	Kind     Kind
	Document anthropic.Document
	// TankID fills purchases whose challan does not name a tank.
	TankID string
	// Account names the ledger bank statement lines belong to.
	Account string
}

// Rejected is an extracted record that failed validation. It never reaches a ledger.
type Rejected struct {
	Index  int               `json:"index"`
	Record json.RawMessage   `json:"record"`
	Reason string            `json:"reason"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Result holds validated drafts. Nothing is written; callers submit drafts
// through the station service.
type Result struct {
	Kind           Kind                  `json:"kind"`
	Purchases      []models.FuelPurchase `json:"purchases,omitempty"`
	SalesReports   []models.SalesReport  `json:"sales_reports,omitempty"`
	AccountEntries []models.AccountEntry `json:"account_entries,omitempty"`
	Rejected       []Rejected            `json:"rejected"`
	Cached         bool                  `json:"cached"`
}

// Service extracts ledger drafts from documents with an AI model.
type Service struct {
	ai      anthropic.Client
	results *cache.Cache
	logger  *zap.Logger
}

// NewService wires the extraction service.
func NewService(ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ai:      ai,
		results: cache.New(resultTTL, resultCleanup),
		logger:  logger,
	}
}

// Extract reads the document and returns validated drafts. Identical
// requests within an hour are served from cache.
func (s *Service) Extract(ctx context.Context, req Request) (Result, error) {
	instruction, ok := instructions[req.Kind]
	if !ok {
		return Result{}, fmt.Errorf("%q: %w", req.Kind, ErrUnknownKind)
	}

	key := cacheKey(req)
	if cached, found := s.results.Get(key); found {
		result := cached.(Result)
		result.Cached = true
		s.logger.Debug("extraction served from cache", zap.String("kind", string(req.Kind)))
		return result, nil
	}

	raw, err := s.ai.ExtractJSON(ctx, instruction, req.Document)
	if err != nil {
		return Result{}, fmt.Errorf("extract %s: %w", req.Kind, err)
	}

	var envelope struct {
		Records []json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	result := Result{Kind: req.Kind, Rejected: []Rejected{}}
	for i, rec := range envelope.Records {
		if rejected := s.accept(&result, req, rec); rejected != nil {
			rejected.Index = i
			rejected.Record = rec
			result.Rejected = append(result.Rejected, *rejected)
		}
	}

	s.logger.Info("document extracted",
		zap.String("kind", string(req.Kind)),
		zap.Int("records", len(envelope.Records)),
		zap.Int("rejected", len(result.Rejected)),
	)

	s.results.Set(key, result, cache.DefaultExpiration)
	return result, nil
}

// accept decodes and validates one record into result, or explains why not.
func (s *Service) accept(result *Result, req Request, rec json.RawMessage) *Rejected {
	switch req.Kind {
	case KindChallan:
		var p models.FuelPurchase
		if err := json.Unmarshal(rec, &p); err != nil {
			return decodeRejection(err)
		}
		p.ID = ""
		if p.TankID == "" {
			p.TankID = req.TankID
		}
		if err := models.Validate(p); err != nil {
			return validationRejection(err)
		}
		result.Purchases = append(result.Purchases, p)
	case KindSalesReport:
		var r models.SalesReport
		if err := json.Unmarshal(rec, &r); err != nil {
			return decodeRejection(err)
		}
		r.ID = ""
		if err := models.Validate(r); err != nil {
			return validationRejection(err)
		}
		result.SalesReports = append(result.SalesReports, r)
	case KindBankStatement:
		var e models.AccountEntry
		if err := json.Unmarshal(rec, &e); err != nil {
			return decodeRejection(err)
		}
		e.ID = ""
		if e.Account == "" {
			e.Account = req.Account
		}
		if e.Kind == "" {
			e.Kind = models.AccountBank
		}
		if err := models.Validate(e); err != nil {
			return validationRejection(err)
		}
		if e.Debit.IsZero() && e.Credit.IsZero() {
			return &Rejected{Reason: "entry needs a debit or a credit"}
		}
		result.AccountEntries = append(result.AccountEntries, e)
	}
	return nil
}

func decodeRejection(err error) *Rejected {
	return &Rejected{Reason: "undecodable record: " + err.Error()}
}

func validationRejection(err error) *Rejected {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return &Rejected{Reason: "validation failed", Fields: verr.Fields}
	}
	return &Rejected{Reason: err.Error()}
}

func cacheKey(req Request) string {
	h := sha256.New()
	for _, part := range []string{string(req.Kind), req.TankID, req.Account, req.Document.MediaType} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	h.Write(req.Document.Data)
	return hex.EncodeToString(h.Sum(nil))
}
