package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "agridynamic/internal/errors"
	"agridynamic/internal/media"
)

var errMalformedBody = apperrors.Validation("Invalid request body.")

// stringList accepts a JSON array, a JSON encoded array inside a string, or a
// comma separated string.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = append(make(stringList, 0, len(items)), items...)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = parseStringList([]string{raw})
	return nil
}

func parseStringList(values []string) stringList {
	out := make(stringList, 0, len(values))
	if len(values) == 1 {
		raw := strings.TrimSpace(values[0])
		var items []string
		if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &items) == nil {
			return append(out, items...)
		}
		if raw == "" {
			return out
		}
		return append(out, strings.Split(raw, ",")...)
	}
	return append(out, values...)
}

// formValues gives key-presence access to url-encoded and multipart fields.
type formValues map[string][]string

func (f formValues) str(key string) *string {
	if v, ok := f[key]; ok && len(v) > 0 {
		return &v[0]
	}
	return nil
}

func (f formValues) boolean(key string) (*bool, error) {
	v := f.str(key)
	if v == nil || *v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		return nil, apperrors.Validation("Please provide valid values for: "+key+".", key)
	}
	return &b, nil
}

func (f formValues) list(key string) stringList {
	v, ok := f[key]
	if !ok {
		return nil
	}
	return parseStringList(v)
}

func isForm(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEMultipartForm) || strings.HasPrefix(ct, echo.MIMEApplicationForm)
}

func readForm(c echo.Context) (formValues, error) {
	values, err := c.FormParams()
	if err != nil {
		return nil, errMalformedBody
	}
	return formValues(values), nil
}

// readUpload returns the file sent under field, or nil when there is none.
func readUpload(c echo.Context, field string) (*media.UploadedBytes, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errMalformedBody
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &media.UploadedBytes{
		Data:        data,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Filename:    fh.Filename,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
