package models

import "strings"

// CommandType enumerates the manager commands accepted over WhatsApp.
type CommandType string

const (
	CommandDip     CommandType = "dip"
	CommandStock   CommandType = "stock"
	CommandSales   CommandType = "sales"
	CommandPrice   CommandType = "price"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed manager instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
// Arguments keep their original case because tank and fuel ids are case sensitive.
func ParseCommand(message string) Command {
	tokens := strings.Fields(strings.TrimSpace(message))
	cmd := Command{Type: CommandUnknown, Raw: message}

	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	switch CommandType(head) {
	case CommandDip, CommandStock, CommandSales, CommandPrice:
		cmd.Type = CommandType(head)
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
