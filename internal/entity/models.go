package entity

import "time"

// Attachment is a file a user uploaded into a conversation
type Attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// IncomingMessage is one user turn as received by a chat front-end
type IncomingMessage struct {
	Content     string       `json:"content"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// ChatSession is the per-session state kept by the chat store
type ChatSession struct {
	ID        string        `json:"session_id"`
	Persona   string        `json:"persona"`
	History   []ChatMessage `json:"history"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
