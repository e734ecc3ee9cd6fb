package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hugohenrick/chatbot-backend/pkg/logger"
)

// RequestIDHeader é o cabeçalho que carrega o identificador da requisição
const RequestIDHeader = "X-Request-ID"

// requestIDKey é a chave do identificador no contexto do gin
const requestIDKey = "request_id"

// HTTPRecorder recebe as métricas das requisições
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// RequestID garante que toda requisição tenha um identificador,
// reaproveitando o enviado pelo cliente quando houver
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()
	}
}

// GetRequestID retorna o identificador da requisição atual
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger registra método, rota, status e latência de cada requisição
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"route", routeOf(c),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("Requisição concluída com erro", fields...)
		case status >= 400:
			log.Warn("Requisição rejeitada", fields...)
		default:
			log.Info("Requisição concluída", fields...)
		}
	}
}

// Metrics registra contagem e duração das requisições por rota
func Metrics(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		recorder.RecordHTTPRequest(c.Request.Method, routeOf(c), c.Writer.Status(), time.Since(start))
	}
}

// routeOf usa o padrão da rota para não explodir a cardinalidade das métricas
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
