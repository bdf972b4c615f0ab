package req

import (
	"encoding/json"
	"errors"
	"io"
)

const maxBodySize = 1 << 20

// Decode читает JSON-тело запроса в T. Неизвестные поля - ошибка
func Decode[T any](body io.Reader) (T, error) {
	var payload T

	dec := json.NewDecoder(io.LimitReader(body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return payload, errors.New("empty request body")
		}
		return payload, err
	}

	return payload, nil
}
