package config

import "time"

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(projectID, location, modelName string) *LLM {
	return &LLM{
		projectID: projectID,
		location:  location,
		modelName: modelName,
	}
}

// NewSessionStoreForTest creates a SessionStore config for testing purposes
func NewSessionStoreForTest(backend, redisAddr string, ttl time.Duration) *SessionStore {
	return &SessionStore{
		backend:   backend,
		redisAddr: redisAddr,
		ttl:       ttl,
	}
}

// NewAuditForTest creates an Audit config for testing purposes
func NewAuditForTest(backend, projectID, databaseID string) *Audit {
	return &Audit{
		backend:    backend,
		projectID:  projectID,
		databaseID: databaseID,
	}
}

// NewChatbotForTest creates a Chatbot config for testing purposes
func NewChatbotForTest(templateID string, windowSize int, temperature float64, maxTokens int) *Chatbot {
	return &Chatbot{
		templateID:  templateID,
		windowSize:  windowSize,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}
