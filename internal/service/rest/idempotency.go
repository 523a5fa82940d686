package rest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/domain"
)

// HeaderIdempotencyKey — заголовок, по которому клиент помечает повторяемый запрос.
const HeaderIdempotencyKey = "Idempotency-Key"

// defaultIdempotencyTTL задаёт срок жизни записи idempotency-key.
const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyMiddleware перехватывает POST-запросы с Idempotency-Key:
// повторный запрос с тем же ключом и телом получает сохранённый ответ,
// повторный запрос с другим телом отклоняется.
type IdempotencyMiddleware struct {
	repo   domain.IdempotencyRepository
	logger *log.Entry
	ttl    time.Duration
}

// NewIdempotencyMiddleware создаёт middleware. При nil-репозитории
// заголовок игнорируется и запросы проходят насквозь.
func NewIdempotencyMiddleware(repo domain.IdempotencyRepository, logger *log.Entry) *IdempotencyMiddleware {
	if logger == nil {
		logger = log.New().WithField("component", "idempotency-middleware")
	}
	return &IdempotencyMiddleware{
		repo:   repo,
		logger: logger,
		ttl:    defaultIdempotencyTTL,
	}
}

// Handle оборачивает следующий handler проверкой idempotency-key.
func (m *IdempotencyMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(HeaderIdempotencyKey)
		if m.repo == nil || key == "" {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		requestHash := hashRequest(r.Method, r.URL.Path, body)

		if record, err := m.repo.Get(key); err == nil {
			m.replay(w, record, requestHash)
			return
		} else if !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
			m.logger.WithError(err).WithField("idempotency_key", key).Error("failed to look up idempotency key")
			writeError(w, http.StatusInternalServerError, "internal_error", "idempotency lookup failed")
			return
		}

		if _, err := m.repo.CreateProcessing(key, requestHash, time.Now().UTC().Add(m.ttl)); err != nil {
			switch {
			case errors.Is(err, domain.ErrIdempotencyHashMismatch):
				writeError(w, http.StatusConflict, "idempotency_conflict", "idempotency key is used with different request payload")
			case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
				// Гонка двух запросов с одним ключом: второй получает сохранённый
				// ответ или признак незавершённой обработки.
				record, getErr := m.repo.Get(key)
				if getErr != nil {
					writeError(w, http.StatusConflict, "request_in_progress", "request with this idempotency key is being processed")
					return
				}
				m.replay(w, record, requestHash)
			default:
				m.logger.WithError(err).WithField("idempotency_key", key).Error("failed to register idempotency key")
				writeError(w, http.StatusInternalServerError, "internal_error", "idempotency registration failed")
			}
			return
		}

		recorder := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		markErr := error(nil)
		if recorder.status < http.StatusInternalServerError {
			markErr = m.repo.MarkDone(key, recorder.body.Bytes(), recorder.status)
		} else {
			markErr = m.repo.MarkFailed(key, recorder.body.Bytes(), recorder.status)
		}
		if markErr != nil {
			m.logger.WithError(markErr).WithField("idempotency_key", key).Warn("failed to store idempotency response")
		}
	})
}

// replay отдаёт сохранённый ответ по существующей записи idempotency-key.
func (m *IdempotencyMiddleware) replay(w http.ResponseWriter, record domain.IdempotencyRecord, requestHash string) {
	if record.RequestHash != requestHash {
		writeError(w, http.StatusConflict, "idempotency_conflict", "idempotency key is used with different request payload")
		return
	}
	if record.Status == domain.IdempotencyStatusProcessing {
		writeError(w, http.StatusConflict, "request_in_progress", "request with this idempotency key is being processed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotency-Replayed", "true")
	w.WriteHeader(record.HTTPStatus)
	_, _ = w.Write(record.ResponseBody)
}

func hashRequest(method, path string, body []byte) string {
	sum := sha256.New()
	sum.Write([]byte(method))
	sum.Write([]byte{0})
	sum.Write([]byte(path))
	sum.Write([]byte{0})
	sum.Write(body)
	return hex.EncodeToString(sum.Sum(nil))
}

// responseRecorder дублирует записанный ответ в буфер, чтобы сохранить его
// в idempotency-записи.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}
