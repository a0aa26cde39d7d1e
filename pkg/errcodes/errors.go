package errcodes

import (
	"errors"
	"net/http"
)

type Error struct {
	HTTPCode int
	Message  string
	Code     string
}

func (err *Error) Error() string {
	return err.Message
}

func (err *Error) As(target interface{}) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	te.HTTPCode = err.HTTPCode
	te.Message = err.Message
	te.Code = err.Code
	return true
}

func (err *Error) Is(target error) bool {
	te, ok := target.(*Error)
	if !ok {
		return false
	}
	return te.HTTPCode == err.HTTPCode &&
		te.Message == err.Message &&
		te.Code == err.Code
}

// NotFound returns a 404 error with a message indicating the given resource.
func NotFound(resource string) error {
	return &Error{
		http.StatusNotFound,
		resource + " not found.",
		"not_found",
	}
}

// IsNotFound reports whether err is a not-found error for any resource.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == "not_found"
}

// ConfigError indicates missing or unparseable configuration.
func ConfigError(msg string) error {
	return &Error{
		http.StatusInternalServerError,
		msg,
		"config_error",
	}
}

// PathError indicates an invalid composed library path.
func PathError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"path_error",
	}
}

func UnsupportedFile(ext string) error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported file extension " + ext + ".",
		"unsupported_file",
	}
}

func NoCipRecordFound() error {
	return &Error{
		http.StatusNotFound,
		"No CIP record found.",
		"no_cip_record_found",
	}
}

func InvalidPdfFile() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"Invalid PDF file.",
		"invalid_pdf_file",
	}
}

func InvalidPdfPage() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"Invalid PDF page.",
		"invalid_pdf_page",
	}
}

func InvalidEpubFile() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"Invalid EPUB file.",
		"invalid_epub_file",
	}
}

func InvalidEpubPage() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"Invalid EPUB page.",
		"invalid_epub_page",
	}
}

func InvalidMobiFile() error {
	return &Error{
		http.StatusUnprocessableEntity,
		"Invalid MOBI file.",
		"invalid_mobi_file",
	}
}

func UnknownParameter(param string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		"Unknown Parameter \"" + param + "\"",
		"unknown_parameter",
	}
}

func ValidationTypeError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_type_error",
	}
}

func ValidationError(msg string) error {
	return &Error{
		http.StatusUnprocessableEntity,
		msg,
		"validation_error",
	}
}

func MalformedPayload() error {
	return &Error{
		http.StatusBadRequest,
		"Malformed Payload",
		"malformed_payload",
	}
}

func EmptyRequestBody() error {
	return &Error{
		http.StatusBadRequest,
		"Request body can't be empty.",
		"empty_request_body",
	}
}

func UnsupportedMediaType() error {
	return &Error{
		http.StatusUnsupportedMediaType,
		"Unsupported Media Type",
		"unsupported_media_type",
	}
}
