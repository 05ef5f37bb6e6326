package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/service/station"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the supported commands.
const HelpText = `Commands:
dip <tank> <cm> - record a dip reading
stock - stock variance per tank
sales [YYYY-MM-DD] - sales summary for a day
price <fuel> - price in effect today`

// StationAdapter is the part of the station service the dispatcher writes through.
type StationAdapter interface {
	RecordDip(ctx context.Context, in station.DipInput) (models.DipEntry, error)
	CurrentPrice(ctx context.Context, fuelID, date string) (models.ResolvedPrice, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	SalesSummary(ctx context.Context, date string) (string, error)
	StockSummary(ctx context.Context) (string, error)
}

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	station   StationAdapter
	reporting ReportingAdapter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(station StationAdapter, reporting ReportingAdapter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		station:   station,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs the command and builds the reply for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandDip:
		in, err := buildDipInput(cmd)
		if err != nil {
			return "", err
		}
		entry, err := s.station.RecordDip(ctx, in)
		if err != nil {
			return "", err
		}
		message := fmt.Sprintf("Dip saved for tank %s on %s: %.1f cm = %.0f L.", entry.TankID, entry.Date, entry.DipCm, entry.Volume)
		if summary := s.safeSummary(ctx, s.reporting.StockSummary); summary != "" {
			message += "\n" + summary
		}
		return message, nil
	case models.CommandStock:
		return s.reporting.StockSummary(ctx)
	case models.CommandSales:
		date := ""
		if len(cmd.Args) > 0 {
			if _, err := time.Parse(models.DateLayout, cmd.Args[0]); err != nil {
				return "", ErrInvalidArguments
			}
			date = cmd.Args[0]
		}
		return s.reporting.SalesSummary(ctx, date)
	case models.CommandPrice:
		if len(cmd.Args) != 1 {
			return "", ErrInvalidArguments
		}
		price, err := s.station.CurrentPrice(ctx, cmd.Args[0], "")
		if err != nil {
			return "", err
		}
		since := "default price"
		if price.EffectiveDate != nil {
			since = "since " + *price.EffectiveDate
		}
		return fmt.Sprintf("%s: selling %s, cost %s (%s).",
			cmd.Args[0], price.SellingPrice.StringFixed(2), price.CostPrice.StringFixed(2), since), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func buildDipInput(cmd models.Command) (station.DipInput, error) {
	if len(cmd.Args) != 2 {
		return station.DipInput{}, ErrInvalidArguments
	}
	cm, err := strconv.ParseFloat(cmd.Args[1], 64)
	if err != nil || cm < 0 {
		return station.DipInput{}, ErrInvalidArguments
	}
	return station.DipInput{TankID: cmd.Args[0], DipCm: cm}, nil
}

func (s *Service) safeSummary(ctx context.Context, fn func(context.Context) (string, error)) string {
	if fn == nil {
		return ""
	}

	summary, err := fn(ctx)
	if err != nil {
		s.logger.Debug("summary failed", zap.Error(err))
		return ""
	}

	return summary
}
