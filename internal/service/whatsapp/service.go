package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/fuelstation/internal/config"
	"github.com/mamadbah2/fuelstation/internal/domain/models"
	"github.com/mamadbah2/fuelstation/internal/service/commands"
	"github.com/mamadbah2/fuelstation/internal/service/station"
	client "github.com/mamadbah2/fuelstation/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// MessagingService describes the operations the HTTP layer and the scheduler can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	seen       *recentMessages
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		seen:       newRecentMessages(),
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	// Meta redelivers webhooks it considers unacknowledged.
	if !s.seen.markNew(msg.ID) {
		s.logger.Debug("duplicate inbound message ignored", zap.String("message_id", msg.ID))
		return nil
	}
	if s.cfg.ManagerID != "" && msg.From != s.cfg.ManagerID {
		s.logger.Warn("message from unknown sender ignored", zap.String("from", msg.From))
		return nil
	}

	text := extractMessageText(msg)
	if text == "" {
		return errors.New("empty message body")
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, cmdErr := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if cmdErr != nil {
		reply = replyForError(cmdErr)
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := s.client.MarkRead(sendCtx, msg.ID); err != nil {
		s.logger.Debug("mark read failed", zap.Error(err))
	}
	if _, err := s.client.SendTextMessage(sendCtx, client.SendTextMessageRequest{To: msg.From, Body: reply}); err != nil {
		return err
	}

	if cmdErr != nil && !isUserError(cmdErr) {
		return cmdErr
	}
	return nil
}

// SendOutbound pushes a notification, such as the scheduled daily summary.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:         req.To,
		Body:       req.Message,
		PreviewURL: req.PreviewURL,
	})
	return err
}

func replyForError(err error) string {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return commands.HelpText
	case errors.Is(err, commands.ErrInvalidArguments):
		return "Could not read that command.\n" + commands.HelpText
	case errors.As(err, &verr):
		return "Rejected: " + verr.Error()
	case isUserError(err):
		return "Error: " + err.Error()
	default:
		return "Something went wrong, please try again later."
	}
}

// isUserError reports whether err is caused by the message content rather
// than by the system.
func isUserError(err error) bool {
	for _, target := range []error{
		commands.ErrUnsupportedCommand,
		commands.ErrInvalidArguments,
		models.ErrValidation,
		station.ErrNotFound,
		station.ErrUnknownFuel,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return msg.Interactive.ButtonReply.ID
	}

	return ""
}
