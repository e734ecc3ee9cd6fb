package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hugohenrick/chatbot-backend/internal/domain/conversation"
)

// Formatos suportados
const (
	FormatJSON = "json"
	FormatTXT  = "txt"
)

const (
	dateTimeLayout = "1/2/2006, 3:04:05 PM"
	timeLayout     = "3:04:05 PM"
)

// File é o resultado de uma exportação
type File struct {
	Content  []byte
	MIMEType string
	Filename string
}

// Formatter gera as representações exportáveis de uma conversa
type Formatter struct {
	location *time.Location
}

// NewFormatter cria um Formatter que exibe os horários no fuso informado (nil = local)
func NewFormatter(location *time.Location) *Formatter {
	if location == nil {
		location = time.Local
	}
	return &Formatter{location: location}
}

// Export gera o arquivo da conversa no formato pedido (json ou txt, sem diferenciar maiúsculas)
func (f *Formatter) Export(conv *conversation.Conversation, format string) (*File, error) {
	format = strings.ToLower(strings.TrimSpace(format))

	switch format {
	case FormatJSON:
		content, err := json.MarshalIndent(conv, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar conversa: %w", err)
		}
		return &File{
			Content:  content,
			MIMEType: "application/json",
			Filename: Filename(conv.ID, format),
		}, nil
	case FormatTXT:
		return &File{
			Content:  f.text(conv),
			MIMEType: "text/plain; charset=utf-8",
			Filename: Filename(conv.ID, format),
		}, nil
	default:
		return nil, conversation.NewValidationError("format", fmt.Sprintf("formato de exportação não suportado: %q", format))
	}
}

func (f *Formatter) text(conv *conversation.Conversation) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "Conversation ID: %s\n", conv.ID)
	fmt.Fprintf(&b, "Title: %s\n", conv.DisplayTitle())
	fmt.Fprintf(&b, "Created: %s\n", conv.CreatedAt.In(f.location).Format(dateTimeLayout))
	fmt.Fprintf(&b, "Last Updated: %s\n", conv.UpdatedAt.In(f.location).Format(dateTimeLayout))
	b.WriteString("\n--- Conversation Log ---\n\n")

	for _, msg := range conv.Messages {
		fmt.Fprintf(&b, "%s (%s): %s\n\n",
			strings.ToUpper(string(msg.Sender)),
			msg.Timestamp.In(f.location).Format(timeLayout),
			msg.Text)
	}

	return b.Bytes()
}

// Filename retorna chat_<primeiros 8 caracteres do ID>.<formato>
func Filename(id, format string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("chat_%s.%s", short, strings.ToLower(format))
}
