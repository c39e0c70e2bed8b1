// api/handlers/chat_handlers.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Witt007/techos-api/llm"
)

// fallbackReply is returned when no LLM provider is configured or the
// upstream call fails. The site is bilingual, so the canned reply is too.
const fallbackReply = "Thanks for reaching out! The assistant is offline right now — " +
	"please use the contact form and I'll get back to you soon. " +
	"感谢联系！智能助手暂时离线，请通过联系表单留言，我会尽快回复。"

const systemPrompt = "You are the assistant on a personal portfolio website. " +
	"Answer questions about the site owner's projects, blog posts and résumé. " +
	"Reply in the language the visitor writes in (English or Chinese). Keep answers short."

type ChatHandlers struct {
	LLM llm.Client
}

func NewChatHandlers(client llm.Client) *ChatHandlers {
	return &ChatHandlers{LLM: client}
}

type chatRequest struct {
	Message string        `json:"message" binding:"required"`
	History []llm.Message `json:"history"`
}

// Chat proxies a visitor message to the LLM provider. A missing provider or
// an upstream failure degrades to the canned reply, never a 5xx: chat is a
// convenience feature and the contact form is the reliable channel.
func (h *ChatHandlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	if h.LLM == nil {
		c.JSON(http.StatusOK, gin.H{"reply": fallbackReply})
		return
	}

	messages := make([]llm.Message, 0, len(req.History)+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, llm.Message{Role: "user", Content: req.Message})

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	reply, err := h.LLM.Complete(ctx, messages)
	if err != nil {
		log.Printf("Error completing chat request: %v", err)
		c.JSON(http.StatusOK, gin.H{"reply": fallbackReply})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
