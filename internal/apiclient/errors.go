package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind clasifica una falla de request. Se decide una sola vez, en el borde HTTP.
type Kind string

const (
	KindTransport      Kind = "transport"       // red caída, timeout, contexto cancelado
	KindStatus         Kind = "status"          // respuesta no-2xx con detail
	KindMalformed      Kind = "malformed"       // cuerpo que no es JSON
	KindProfileMissing Kind = "profile_missing" // el comprador no tiene perfil de entrega
)

const (
	invalidJSONDetail    = "Invalid JSON"
	requestFailedDetail  = "Request failed"
	profileMissingCode   = "profile_missing"
	profileMissingDetail = "Profile missing"
)

type Error struct {
	Kind       Kind
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		return fmt.Sprintf("request failed: %v", e.Err)
	case KindMalformed:
		return fmt.Sprintf("malformed response (status %d): %s", e.StatusCode, e.Detail)
	default:
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Detail)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf devuelve el tipo de falla, o "" si err no viene del cliente.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// ErrOwnerMarkUnread: el backend no tiene mark-unread para las notificaciones del dueño.
var ErrOwnerMarkUnread = errors.New("las notificaciones del dueño no se pueden marcar como no leídas")

func IsProfileMissing(err error) bool {
	return KindOf(err) == KindProfileMissing
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// StatusOf devuelve el código HTTP de la respuesta fallida, 0 si no hubo respuesta.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// UserMessage colapsa cualquier falla en el mensaje que ve el usuario.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsProfileMissing(err) {
		return "Please complete your delivery profile to continue."
	}
	return "Action failed. Please try again."
}
