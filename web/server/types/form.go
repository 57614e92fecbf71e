package types

import (
	"database/sql"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

// formList returns the values of a repeated field. A single value is also
// split on commas.
func formList(form *multipart.Form, key string) []string {
	var list []string
	for _, v := range form.Value[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
	}
	return list
}

func formBool(form *multipart.Form, key string) (sql.Null[bool], error) {
	v := formValue(form, key)
	if v == "" {
		return sql.Null[bool]{}, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return sql.Null[bool]{}, NewError(http.StatusBadRequest,
			fmt.Sprintf("invalid boolean value for %s: '%s'", key, v))
	}
	return sql.Null[bool]{V: b, Valid: true}, nil
}

func formTime(form *multipart.Form, key string) (sql.Null[time.Time], error) {
	v := formValue(form, key)
	if v == "" {
		return sql.Null[time.Time]{}, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return sql.Null[time.Time]{}, NewError(http.StatusBadRequest,
			fmt.Sprintf("invalid RFC 3339 time value for %s: '%s'", key, v))
	}
	return sql.Null[time.Time]{V: t.UTC(), Valid: true}, nil
}

func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	if files := form.File[key]; len(files) > 0 {
		return files[0]
	}
	return nil
}

func nullTime(t sql.Null[time.Time]) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.V
}
