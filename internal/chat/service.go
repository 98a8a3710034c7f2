package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-loja/internal/obs"
)

const systemInstruction = `Você é o "Assistente Shalom", um guia prestativo e conhecedor da "Loja Beit Shalom".
A loja vende artigos religiosos judaicos, livros e cursos educacionais.
Tom: Respeitoso, acolhedor, espiritual, mas moderno e prestativo.
Idioma: Português do Brasil.

Se perguntarem sobre produtos, sugira itens genéricos como "Bíblias de Estudo", "Menorás", "Kipás" ou "Cursos de Hebraico".
Se perguntarem sobre fé, responda brevemente e respeitosamente com uma perspectiva judaico-messiânica.
Mantenha as respostas concisas (menos de 100 palavras), pois este é um chat widget.`

const (
	fallbackReply = "Peço desculpas, mas não consigo processar sua solicitação no momento."
	emptyReply    = "Shalom! Estou com dificuldades para conectar agora. Por favor, tente novamente."
)

// Generator produces a model reply for a conversation.
type Generator interface {
	Enabled() bool
	Generate(ctx context.Context, system string, history []Message, message string) (string, error)
}

// Service answers widget messages, degrading to a fixed apology when
// the model is unavailable. The endpoint itself never errors.
type Service struct {
	Model  Generator
	Logger zerolog.Logger
}

// Reply returns the assistant's answer for the given conversation.
func (s *Service) Reply(ctx context.Context, history []Message, message string) string {
	if s.Model == nil || !s.Model.Enabled() {
		s.count("disabled")
		return fallbackReply
	}
	text, err := s.Model.Generate(ctx, systemInstruction, history, message)
	if err != nil {
		s.Logger.Warn().Err(err).Msg("chat completion failed")
		s.count("error")
		return fallbackReply
	}
	if text == "" {
		s.count("empty")
		return emptyReply
	}
	s.count("ok")
	return text
}

func (s *Service) count(result string) {
	if obs.ChatReplyTotal != nil {
		obs.ChatReplyTotal.WithLabelValues(result).Inc()
	}
}
